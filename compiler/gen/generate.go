package gen

import (
	"bytes"
	"context"
	"fmt"
	"go/token"
	"path"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"github.com/dave/jennifer/jen"
	"golang.org/x/sync/errgroup"

	"github.com/syssam/lowcode"
	"github.com/syssam/lowcode/compiler/design"
	"github.com/syssam/lowcode/compiler/snapshot"
	"github.com/syssam/lowcode/internal/ctxlog"
	"github.com/syssam/lowcode/schema/argument"
)

const snapshotFile = "snapshot.msgpack"

// Generator writes one Go package per finalized module.
type Generator struct {
	cfg     *Config
	modules []*design.Module
	w       writer
}

// NewGenerator returns a generator for the given modules. Every object of
// the modules must be finalized.
func NewGenerator(cfg *Config, modules ...*design.Module) (*Generator, error) {
	if cfg == nil || cfg.Target == "" {
		return nil, NewConfigError("Target", nil, "missing target directory in config")
	}
	for _, m := range modules {
		for _, o := range m.Objects() {
			if !o.Sealed() {
				return nil, &lowcode.LifecycleError{Object: o.QualifiedName(), Op: "generate", State: "unsealed"}
			}
		}
	}
	return &Generator{cfg: cfg, modules: modules}, nil
}

// Metrics returns what the generator wrote so far.
func (g *Generator) Metrics() Metrics {
	return g.w.snapshot()
}

// Generate writes the packages of all modules in parallel, then removes the
// output of disabled features left by previous runs.
func (g *Generator) Generate(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	workers := g.cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)

	for _, m := range g.modules {
		dir := g.dir(m)
		eg.Go(task(ctx, func() error { return g.writeID(m, dir) }))
		for _, o := range m.Objects() {
			eg.Go(task(ctx, func() error { return g.writeObject(m, o, dir) }))
		}
		if g.cfg.HasFeature(FeatureSQL.Name) {
			eg.Go(task(ctx, func() error { return g.writeSQL(ctx, m, dir) }))
		}
		if g.cfg.HasFeature(FeatureSnapshot.Name) {
			eg.Go(task(ctx, func() error { return g.writeSnapshot(m, dir) }))
		}
	}
	if err := eg.Wait(); err != nil {
		return err
	}

	for _, m := range g.modules {
		for _, f := range AllFeatures {
			if f.cleanup == nil || g.cfg.HasFeature(f.Name) {
				continue
			}
			if err := f.cleanup(g.dir(m)); err != nil {
				return NewGenerationError("cleanup", g.dir(m), "feature "+f.Name, err)
			}
		}
	}
	metrics := g.Metrics()
	logger.Info("code generated", "target", g.cfg.Target, "modules", len(g.modules), "files", metrics.FilesGenerated, "bytes", metrics.TotalBytes)
	return nil
}

func task(ctx context.Context, f func() error) func() error {
	return func() error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			return f()
		}
	}
}

// dir returns the output directory of m.
func (g *Generator) dir(m *design.Module) string {
	return filepath.Join(g.cfg.Target, packageName(m.Name()))
}

// importPath returns the import path of the package generated for a module.
func (g *Generator) importPath(modulePath, moduleName string) string {
	if modulePath == moduleName && g.cfg.Package != "" {
		return path.Join(g.cfg.Package, packageName(moduleName))
	}
	return modulePath
}

func (g *Generator) objectPath(o argument.Object) string {
	return g.importPath(o.ImportPath(), o.ModuleName())
}

func packageName(module string) string {
	return strings.ToLower(module)
}

// newFile creates a new Jennifer file of the package of m with the header comment.
func (g *Generator) newFile(m *design.Module) *jen.File {
	f := jen.NewFilePathName(g.importPath(m.Path(), m.Name()), packageName(m.Name()))
	if g.cfg.Header != "" {
		f.HeaderComment(g.cfg.Header)
	}
	return f
}

// writeID writes the generic id type the objects of m are identified by.
func (g *Generator) writeID(m *design.Module, dir string) error {
	f := g.newFile(m)
	f.Comment("ID identifies a stored object of type T.")
	f.Type().Id("ID").Types(jen.Id("T").Id("any")).Struct(
		jen.Id("Value").Int64(),
	)
	f.Comment("IsZero reports whether the id is unset.")
	f.Func().Params(jen.Id("id").Id("ID").Types(jen.Id("T"))).Id("IsZero").Params().Bool().Block(
		jen.Return(jen.Id("id").Dot("Value").Op("==").Lit(0)),
	)
	f.Comment("String returns the decimal form of the id.")
	f.Func().Params(jen.Id("id").Id("ID").Types(jen.Id("T"))).Id("String").Params().String().Block(
		jen.Return(jen.Qual("strconv", "FormatInt").Call(jen.Id("id").Dot("Value"), jen.Lit(10))),
	)
	return g.w.render(f, filepath.Join(dir, "id.go"))
}

// writeObject writes the struct and the access interface of o, and the
// dependent classes of its properties beside them.
func (g *Generator) writeObject(m *design.Module, o *design.Object, dir string) error {
	sink := &objectSink{}
	if err := o.Emit(sink); err != nil {
		return NewGenerationError("object", o.QualifiedName(), "emit", err)
	}
	base := design.Snake(o.Name())
	f := g.newFile(m)
	if runtimes := g.runtimeImports(m, o, sink.imports); len(runtimes) > 0 {
		f.Comment("Runtime packages required by " + o.Name() + ":")
		for _, p := range runtimes {
			f.Comment("\t" + p)
		}
		f.Line()
	}
	g.object(f, m, o)
	g.access(f, o)
	g.actions(f, o)
	if err := g.w.render(f, filepath.Join(dir, base+".go")); err != nil {
		return err
	}
	for _, c := range sink.classes {
		name := base + "_" + strings.ToLower(c.property) + ".go"
		if err := g.w.format(filepath.Join(dir, name), g.dependentSource(m, c.body)); err != nil {
			return err
		}
	}
	return nil
}

// runtimeImports returns the imports requested by the properties of o that
// are not generated packages.
func (g *Generator) runtimeImports(m *design.Module, o *design.Object, imports []string) []string {
	generated := []string{m.Path(), g.importPath(m.Path(), m.Name())}
	for _, ref := range o.References() {
		generated = append(generated, ref.ImportPath(), g.objectPath(ref))
	}
	var runtimes []string
	for _, p := range imports {
		if !slices.Contains(generated, p) {
			runtimes = append(runtimes, p)
		}
	}
	return runtimes
}

func (g *Generator) object(f *jen.File, m *design.Module, o *design.Object) {
	f.Commentf("%s is an object of module %s.", o.Name(), m.Name())
	f.Type().Id(o.Name()).StructFunc(func(grp *jen.Group) {
		for _, e := range o.Elements() {
			d := e.Display()
			field := grp.Id(design.GoName(e.Name())).Add(g.goType(e.Content())).Tag(map[string]string{
				"json":    strings.ToLower(e.Name()),
				"lowcode": displayTag(d),
			})
			if d.Help != "" {
				field.Comment(d.Help)
			}
		}
	})
}

func displayTag(d design.Display) string {
	tag := fmt.Sprintf("label=%s,visibility=%s,priority=%d", d.Label, d.Visibility, d.Priority)
	if d.Width > 0 {
		tag += fmt.Sprintf(",width=%d", d.Width)
	}
	return tag
}

func (g *Generator) access(f *jen.File, o *design.Object) {
	f.Commentf("%sAccess is the data access of %s.", o.Name(), o.Name())
	f.Type().Id(o.Name() + "Access").InterfaceFunc(func(grp *jen.Group) {
		for _, meth := range o.Methods() {
			grp.Comment(methodDoc(meth))
			for _, h := range meth.Hooks() {
				grp.Commentf("%s runs %s %s.", h.InjectedBy.Name(), h.Timing, meth.Name())
			}
			grp.Id(design.GoName(meth.Name())).ParamsFunc(func(params *jen.Group) {
				params.Id("ctx").Qual("context", "Context")
				for _, a := range meth.Arguments() {
					params.Id(paramName(a.Name())).Add(g.goType(a.Content()))
				}
			}).Add(g.results(meth))
		}
	})
}

func methodDoc(m *design.DataAccessMethod) string {
	var kind []string
	if m.IsStatic() {
		kind = append(kind, "static")
	}
	if m.IsMutation() {
		kind = append(kind, "mutation")
	}
	doc := fmt.Sprintf("%s is declared by %s", design.GoName(m.Name()), m.Owner().Name())
	if len(kind) > 0 {
		doc += " (" + strings.Join(kind, ", ") + ")"
	}
	return doc + "."
}

func (g *Generator) results(m *design.DataAccessMethod) *jen.Statement {
	if m.Returns() == nil {
		return jen.Error()
	}
	return jen.Params(g.goType(m.Returns()), jen.Error())
}

func (g *Generator) actions(f *jen.File, o *design.Object) {
	primary, manage := o.Actions(design.BandPrimary), o.Actions(design.BandManage)
	if len(primary) == 0 && len(manage) == 0 {
		return
	}
	names := func(actions []*design.Action) jen.Code {
		return jen.Index().String().ValuesFunc(func(grp *jen.Group) {
			for _, a := range actions {
				grp.Lit(a.Name())
			}
		})
	}
	f.Commentf("%sActions lists the actions on a %s id, by band.", o.Name(), o.Name())
	f.Var().Id(o.Name() + "Actions").Op("=").Map(jen.String()).Index().String().Values(jen.Dict{
		jen.Lit(design.BandPrimary.String()): names(primary),
		jen.Lit(design.BandManage.String()):  names(manage),
	})
}

// dependentSource wraps a dependent class body into a source file of the
// package of m. Imports are left to goimports.
func (g *Generator) dependentSource(m *design.Module, body []byte) []byte {
	var buf bytes.Buffer
	if g.cfg.Header != "" {
		fmt.Fprintf(&buf, "// %s\n\n", g.cfg.Header)
	}
	fmt.Fprintf(&buf, "package %s\n\n", packageName(m.Name()))
	buf.Write(body)
	buf.WriteByte('\n')
	return buf.Bytes()
}

func (g *Generator) writeSQL(ctx context.Context, m *design.Module, dir string) error {
	ddl, err := DDL(ctx, m)
	if err != nil {
		return NewGenerationError("sql", filepath.Join(dir, schemaFile), "", err)
	}
	var buf bytes.Buffer
	if g.cfg.Header != "" {
		fmt.Fprintf(&buf, "-- %s\n\n", g.cfg.Header)
	}
	buf.Write(ddl)
	return g.w.write(filepath.Join(dir, schemaFile), buf.Bytes())
}

func (g *Generator) writeSnapshot(m *design.Module, dir string) error {
	file := filepath.Join(dir, snapshotFile)
	s, err := snapshot.Take(m)
	if err != nil {
		return NewGenerationError("snapshot", file, "", err)
	}
	b, err := s.Encode()
	if err != nil {
		return NewGenerationError("snapshot", file, "", err)
	}
	return g.w.write(file, b)
}

// goType returns the Go type of an argument.
func (g *Generator) goType(c argument.Content) *jen.Statement {
	return argument.Match[*jen.Statement](c, goType{g: g})
}

type goType struct{ g *Generator }

func (goType) Text(*argument.Text) *jen.Statement { return jen.String() }

func (goType) Integer(*argument.Integer) *jen.Statement { return jen.Int64() }

func (t goType) Reference(a *argument.Reference) *jen.Statement {
	o := a.Owner()
	return jen.Op("*").Qual(t.g.objectPath(o), o.Name())
}

func (t goType) ObjectID(a *argument.ObjectID) *jen.Statement {
	o := a.Owner()
	p := t.g.objectPath(o)
	return jen.Qual(p, "ID").Types(jen.Qual(p, o.Name()))
}

func (t goType) Array(a *argument.Array) *jen.Statement {
	return jen.Index().Add(argument.Match[*jen.Statement](a.Elem(), t))
}

func (goType) FaultyText(*argument.FaultyText) *jen.Statement { return jen.String() }

// paramName returns the parameter name of a method argument, e.g. "id" for
// ID and "lastOrder" for LAST_ORDER.
func paramName(name string) string {
	n := design.GoName(name)
	if n == strings.ToUpper(name) {
		n = strings.ToLower(n)
	} else {
		n = strings.ToLower(n[:1]) + n[1:]
	}
	if token.IsKeyword(n) || n == "ctx" {
		n += "_"
	}
	return n
}

// objectSink collects what Object.Emit hands over for one object.
type objectSink struct {
	imports []string
	classes []dependentClass
}

type dependentClass struct {
	property string
	body     []byte
}

var _ design.Sink = (*objectSink)(nil)

func (s *objectSink) Imports(_ *design.Object, _ design.Property, imports []string) error {
	for _, p := range imports {
		if !slices.Contains(s.imports, p) {
			s.imports = append(s.imports, p)
		}
	}
	return nil
}

func (s *objectSink) DependentClass(_ *design.Object, p design.Property, body []byte) error {
	s.classes = append(s.classes, dependentClass{property: p.Name(), body: bytes.Clone(body)})
	return nil
}
