// Package ingest maps the intermediate representation (IR) produced by an
// external source-analysis front end into graph nodes and edges (spec
// layer L3). The IR is analyzer-agnostic: one FileRecord per source file,
// naming entities and relationships by string identifier rather than by
// node ID, since the mapper is what first creates those IDs.
package ingest

// ModuleInfo describes the module-level facts attached to a file, when
// the source language has an explicit module concept.
type ModuleInfo struct {
	Name      string `json:"name"`
	Path      string `json:"path"`
	Language  string `json:"language"`
	LineCount int64  `json:"line_count"`
	Doc       string `json:"doc,omitempty"`
}

// Parameter describes one function parameter.
type Parameter struct {
	Name       string `json:"name"`
	Type       string `json:"type,omitempty"`
	Default    string `json:"default,omitempty"`
	IsVariadic bool   `json:"is_variadic,omitempty"`
}

// Complexity carries the optional static-complexity metrics the analyzer
// may have computed for a function.
type Complexity struct {
	CyclomaticComplexity int `json:"cyclomatic_complexity"`
	Branches             int `json:"branches"`
	Loops                int `json:"loops"`
	LogicalOperators     int `json:"logical_operators"`
	MaxNestingDepth      int `json:"max_nesting_depth"`
	ExceptionHandlers    int `json:"exception_handlers"`
	EarlyReturns         int `json:"early_returns"`
}

// FunctionRecord describes one function or method.
type FunctionRecord struct {
	Name        string       `json:"name"`
	Signature   string       `json:"signature,omitempty"`
	LineStart   int64        `json:"line_start"`
	LineEnd     int64        `json:"line_end"`
	Visibility  string       `json:"visibility,omitempty"`
	IsAsync     bool         `json:"is_async,omitempty"`
	IsTest      bool         `json:"is_test,omitempty"`
	IsStatic    bool         `json:"is_static,omitempty"`
	IsAbstract  bool         `json:"is_abstract,omitempty"`
	Parameters  []Parameter  `json:"parameters,omitempty"`
	ReturnType  string       `json:"return_type,omitempty"`
	Doc         string       `json:"doc,omitempty"`
	Attributes  []string     `json:"attributes,omitempty"`
	ParentClass string       `json:"parent_class,omitempty"`
	Complexity  *Complexity  `json:"complexity,omitempty"`
}

// ClassRecord describes one class or, with the same shape, one trait
// (Traits in the IR use ClassRecord directly; RequiredMethods names the
// methods a trait requires implementors to provide).
type ClassRecord struct {
	Name              string           `json:"name"`
	Visibility        string           `json:"visibility,omitempty"`
	LineStart         int64            `json:"line_start"`
	LineEnd           int64            `json:"line_end"`
	IsAbstract        bool             `json:"is_abstract,omitempty"`
	IsInterface       bool             `json:"is_interface,omitempty"`
	BaseClasses       []string         `json:"base_classes,omitempty"`
	ImplementedTraits []string         `json:"implemented_traits,omitempty"`
	Methods           []FunctionRecord `json:"methods,omitempty"`
	Fields            []string         `json:"fields,omitempty"`
	Doc               string           `json:"doc,omitempty"`
	Attributes        []string         `json:"attributes,omitempty"`
	TypeParameters    []string         `json:"type_parameters,omitempty"`
	RequiredMethods   []string         `json:"required_methods,omitempty"`
}

// ImportRecord describes one import statement.
type ImportRecord struct {
	Importer   string   `json:"importer"`
	Imported   string   `json:"imported"`
	Symbols    []string `json:"symbols,omitempty"`
	IsWildcard bool     `json:"is_wildcard,omitempty"`
	Alias      string   `json:"alias,omitempty"`
}

// CallRecord describes one call site, naming caller and callee by
// unqualified symbol name within the file being ingested.
type CallRecord struct {
	Caller       string `json:"caller"`
	Callee       string `json:"callee"`
	CallSiteLine int64  `json:"call_site_line"`
	IsDirect     bool   `json:"is_direct,omitempty"`
}

// InheritanceRecord describes one base-class relationship.
type InheritanceRecord struct {
	Child  string `json:"child"`
	Parent string `json:"parent"`
	Order  int    `json:"order"`
}

// ImplementationRecord describes one trait/interface implementation.
type ImplementationRecord struct {
	Implementor string `json:"implementor"`
	TraitName   string `json:"trait_name"`
}

// TypeReferenceRecord describes one reference to a named type.
type TypeReferenceRecord struct {
	Referrer string `json:"referrer"`
	TypeName string `json:"type_name"`
	Line     int64  `json:"line"`
}

// FileRecord is the per-file unit the analyzer emits; Mapper.IngestFile
// consumes exactly one of these per call.
type FileRecord struct {
	Path            string                 `json:"path"`
	Language        string                 `json:"language"`
	Module          *ModuleInfo            `json:"module,omitempty"`
	Functions       []FunctionRecord       `json:"functions,omitempty"`
	Classes         []ClassRecord          `json:"classes,omitempty"`
	Traits          []ClassRecord          `json:"traits,omitempty"`
	Imports         []ImportRecord         `json:"imports,omitempty"`
	Calls           []CallRecord           `json:"calls,omitempty"`
	Inheritance     []InheritanceRecord    `json:"inheritance,omitempty"`
	Implementations []ImplementationRecord `json:"implementations,omitempty"`
	TypeReferences  []TypeReferenceRecord  `json:"type_references,omitempty"`
}
