package ingest

import (
	"sort"
	"strings"

	"github.com/codeprop/codeprop/internal/logging"
	"github.com/codeprop/codeprop/pkg/graph"
	"github.com/codeprop/codeprop/pkg/prop"
)

type pendingCall struct {
	callerID graph.NodeID
	callee   string
	line     int64
}

// Mapper converts IR FileRecords into graph nodes and edges, one file at a
// time, deferring calls it cannot resolve immediately so a later file in
// the batch can complete them (§6.1 mapping rule 3). Imports are not
// deferred: one that matches no file ingested so far gets an external
// Module placeholder straight away.
type Mapper struct {
	g      *graph.Graph
	logger *logging.Logger

	fileNodes   map[string]graph.NodeID // normalized path -> file node
	symbolNodes map[string]graph.NodeID // "path::name" -> function/class node
	pending     []pendingCall
}

// NewMapper creates a mapper writing into g.
func NewMapper(g *graph.Graph, logger *logging.Logger) *Mapper {
	if logger == nil {
		logger = logging.New("[ingest] ")
	}
	return &Mapper{
		g:           g,
		logger:      logger,
		fileNodes:   make(map[string]graph.NodeID),
		symbolNodes: make(map[string]graph.NodeID),
	}
}

// IngestFile maps one FileRecord into the graph and returns its file node
// ID.
func (m *Mapper) IngestFile(rec FileRecord) (graph.NodeID, error) {
	fileID, err := m.createFileNode(rec)
	if err != nil {
		return 0, err
	}
	m.fileNodes[normalizePathForMatching(rec.Path)] = fileID

	local := make(map[string]graph.NodeID)

	for _, fn := range rec.Functions {
		id, err := m.g.AddFunctionWithMetadata(fileID, graph.FunctionMetadata{
			Name:       fn.Name,
			LineStart:  fn.LineStart,
			LineEnd:    fn.LineEnd,
			Visibility: fn.Visibility,
			Signature:  fn.Signature,
			IsAsync:    fn.IsAsync,
			IsTest:     fn.IsTest,
		})
		if err != nil {
			return 0, err
		}
		if err := attachComplexity(m.g, id, fn.Complexity); err != nil {
			return 0, err
		}
		local[fn.Name] = id
		m.symbolNodes[rec.Path+"::"+fn.Name] = id
	}

	for _, cls := range rec.Classes {
		if err := m.ingestClassLike(rec.Path, fileID, cls, local, graph.NodeClass); err != nil {
			return 0, err
		}
	}
	for _, tr := range rec.Traits {
		if err := m.ingestClassLike(rec.Path, fileID, tr, local, graph.NodeInterface); err != nil {
			return 0, err
		}
	}

	for _, call := range rec.Calls {
		callerID, callerOK := local[call.Caller]
		calleeID, calleeOK := local[call.Callee]
		if callerOK && calleeOK {
			if _, err := m.g.AddCall(callerID, calleeID, call.CallSiteLine); err != nil {
				return 0, err
			}
			continue
		}
		if !callerOK {
			m.logger.Debugf("unresolved call site: unknown caller %q in %s", call.Caller, rec.Path)
			continue
		}
		if err := m.appendUnresolvedCall(callerID, call.Callee); err != nil {
			return 0, err
		}
		m.pending = append(m.pending, pendingCall{callerID: callerID, callee: call.Callee, line: call.CallSiteLine})
	}

	for _, imp := range rec.Imports {
		if err := m.ingestImport(rec.Path, fileID, imp); err != nil {
			return 0, err
		}
	}

	for _, inh := range rec.Inheritance {
		childID, childOK := local[inh.Child]
		parentID, parentOK := m.resolveSymbol(rec.Path, inh.Parent, local)
		if childOK && parentOK {
			if _, err := m.g.AddEdge(childID, parentID, graph.EdgeExtends, prop.New().With("order", prop.IntValue(int64(inh.Order)))); err != nil {
				return 0, err
			}
		} else {
			m.logger.Debugf("dropping unresolved inheritance %s -> %s in %s", inh.Child, inh.Parent, rec.Path)
		}
	}

	for _, impl := range rec.Implementations {
		implID, implOK := local[impl.Implementor]
		traitID, traitOK := m.resolveSymbol(rec.Path, impl.TraitName, local)
		if implOK && traitOK {
			if _, err := m.g.AddEdge(implID, traitID, graph.EdgeImplements, prop.New()); err != nil {
				return 0, err
			}
		} else {
			m.logger.Debugf("dropping unresolved implementation %s -> %s in %s", impl.Implementor, impl.TraitName, rec.Path)
		}
	}

	for _, ref := range rec.TypeReferences {
		referrerID, referrerOK := local[ref.Referrer]
		typeID, typeOK := m.resolveSymbol(rec.Path, ref.TypeName, local)
		if referrerOK && typeOK {
			props := prop.New().With("line", prop.IntValue(ref.Line))
			if _, err := m.g.AddEdge(referrerID, typeID, graph.EdgeReferences, props); err != nil {
				return 0, err
			}
		} else {
			m.logger.Debugf("dropping unresolved type reference %s -> %s in %s", ref.Referrer, ref.TypeName, rec.Path)
		}
	}

	return fileID, nil
}

// ResolvePendingCalls retries every call left unresolved by IngestFile
// against the cumulative cross-file symbol table built so far. Call this
// once every file in a batch has been ingested.
func (m *Mapper) ResolvePendingCalls() error {
	still := m.pending[:0]
	for _, p := range m.pending {
		calleeID, ok := m.lookupAnyFile(p.callee)
		if !ok {
			still = append(still, p)
			continue
		}
		if _, err := m.g.AddCall(p.callerID, calleeID, p.line); err != nil {
			return err
		}
	}
	m.pending = still
	return nil
}

func (m *Mapper) createFileNode(rec FileRecord) (graph.NodeID, error) {
	if rec.Module != nil {
		props := prop.New().
			With("name", prop.StringValue(rec.Module.Name)).
			With("path", prop.StringValue(rec.Module.Path)).
			With("language", prop.StringValue(rec.Module.Language)).
			With("line_count", prop.IntValue(rec.Module.LineCount))
		if rec.Module.Doc != "" {
			props.Insert("doc", prop.StringValue(rec.Module.Doc))
		}
		return m.g.AddNode(graph.NodeCodeFile, props)
	}
	return m.g.AddFile(rec.Path, rec.Language)
}

func (m *Mapper) ingestClassLike(filePath string, fileID graph.NodeID, cls ClassRecord, local map[string]graph.NodeID, nodeType graph.NodeType) error {
	props := prop.New().
		With("name", prop.StringValue(cls.Name)).
		With("line_start", prop.IntValue(cls.LineStart)).
		With("line_end", prop.IntValue(cls.LineEnd)).
		With("is_abstract", prop.BoolValue(cls.IsAbstract))
	if len(cls.TypeParameters) > 0 {
		props.Insert("type_parameters", prop.StringListValue(cls.TypeParameters))
	}
	if len(cls.RequiredMethods) > 0 {
		props.Insert("required_methods", prop.StringListValue(cls.RequiredMethods))
	}

	classID, err := m.g.AddNode(nodeType, props)
	if err != nil {
		return err
	}
	if _, err := m.g.AddEdge(fileID, classID, graph.EdgeContains, prop.New()); err != nil {
		return err
	}
	local[cls.Name] = classID
	m.symbolNodes[filePath+"::"+cls.Name] = classID

	for _, method := range cls.Methods {
		methodID, err := m.g.AddMethod(classID, method.Name, method.LineStart, method.LineEnd)
		if err != nil {
			return err
		}
		if err := attachComplexity(m.g, methodID, method.Complexity); err != nil {
			return err
		}
		qualified := cls.Name + "." + method.Name
		local[qualified] = methodID
		local[method.Name] = methodID
		m.symbolNodes[filePath+"::"+qualified] = methodID
	}
	return nil
}

func (m *Mapper) ingestImport(filePath string, fileID graph.NodeID, imp ImportRecord) error {
	resolved := resolveImportPath(filePath, imp.Imported)
	if resolved != "" {
		if targetID, ok := m.fileNodes[normalizePathForMatching(resolved)]; ok {
			_, err := m.g.AddImport(fileID, targetID, imp.Symbols)
			return err
		}
	}

	props := prop.New().
		With("name", prop.StringValue(imp.Imported)).
		With("path", prop.StringValue(imp.Imported)).
		With("external", prop.BoolValue(true))
	moduleID, err := m.g.AddNode(graph.NodeModule, props)
	if err != nil {
		return err
	}
	_, err = m.g.AddImport(fileID, moduleID, imp.Symbols)
	return err
}

// appendUnresolvedCall merges calleeName into the caller's comma-separated
// unresolved_calls String property rather than overwriting it (§6.1
// mapping rule 3).
func (m *Mapper) appendUnresolvedCall(callerID graph.NodeID, calleeName string) error {
	node, err := m.g.GetNode(callerID)
	if err != nil {
		return err
	}
	merged := calleeName
	if existing, ok := node.Properties.GetString("unresolved_calls"); ok && existing != "" {
		merged = existing + "," + calleeName
	}
	return m.g.UpdateNodeProperties(callerID, prop.New().With("unresolved_calls", prop.StringValue(merged)))
}

func (m *Mapper) resolveSymbol(filePath, name string, local map[string]graph.NodeID) (graph.NodeID, bool) {
	if id, ok := local[name]; ok {
		return id, true
	}
	return m.lookupAnyFile(name)
}

// lookupAnyFile resolves name against every file's symbols when the caller's
// own file doesn't define it. Ties (the same unqualified name defined in
// more than one file) are broken by sorting the candidate keys, so the same
// input batch always resolves to the same node regardless of Go's
// unordered map iteration.
func (m *Mapper) lookupAnyFile(name string) (graph.NodeID, bool) {
	var matches []string
	for key := range m.symbolNodes {
		if strings.HasSuffix(key, "::"+name) {
			matches = append(matches, key)
		}
	}
	if len(matches) == 0 {
		return 0, false
	}
	sort.Strings(matches)
	return m.symbolNodes[matches[0]], true
}

func attachComplexity(g *graph.Graph, id graph.NodeID, c *Complexity) error {
	if c == nil {
		return nil
	}
	return g.UpdateNodeProperties(id, prop.New().
		With("complexity", prop.IntValue(int64(c.CyclomaticComplexity))).
		With("complexity_branches", prop.IntValue(int64(c.Branches))).
		With("complexity_loops", prop.IntValue(int64(c.Loops))).
		With("complexity_logical_ops", prop.IntValue(int64(c.LogicalOperators))).
		With("complexity_nesting", prop.IntValue(int64(c.MaxNestingDepth))).
		With("complexity_exceptions", prop.IntValue(int64(c.ExceptionHandlers))).
		With("complexity_early_returns", prop.IntValue(int64(c.EarlyReturns))))
}

// resolveImportPath resolves a relative import against the importing
// file's directory, mirroring the original mapper's handling of "./" and
// "../" prefixes. Bare module specifiers (no leading "." or "/") return ""
// since they name an external package, not a file in this graph.
func resolveImportPath(importingFile, importPath string) string {
	if !strings.HasPrefix(importPath, ".") && !strings.HasPrefix(importPath, "/") {
		return ""
	}

	parentDir := dirOf(importingFile)

	switch {
	case strings.HasPrefix(importPath, "./"):
		return joinPath(parentDir, strings.TrimPrefix(importPath, "./"))
	case strings.HasPrefix(importPath, "../"):
		current := parentDir
		remaining := importPath
		for strings.HasPrefix(remaining, "../") {
			current = dirOf(current)
			remaining = strings.TrimPrefix(remaining, "../")
		}
		return joinPath(current, remaining)
	case strings.HasPrefix(importPath, "/"):
		return importPath
	default:
		return ""
	}
}

func dirOf(p string) string {
	idx := strings.LastIndex(p, "/")
	if idx < 0 {
		return ""
	}
	return p[:idx]
}

func joinPath(dir, rest string) string {
	if dir == "" {
		return rest
	}
	return dir + "/" + rest
}

// normalizePathForMatching strips the common TypeScript/JavaScript source
// extensions so an import (which omits them) can match an ingested file
// path (which carries them). Order matters: ".d.ts" is checked before the
// plain ".ts" suffix it would otherwise partially match.
func normalizePathForMatching(path string) string {
	if strings.HasSuffix(path, ".d.ts") {
		return strings.TrimSuffix(path, ".d.ts")
	}
	for _, ext := range []string{".tsx", ".ts", ".jsx", ".js"} {
		if strings.HasSuffix(path, ext) {
			return strings.TrimSuffix(path, ext)
		}
	}
	return path
}
