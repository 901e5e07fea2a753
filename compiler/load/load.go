// Package load builds design modules from HCL model files.
//
// A model file declares modules, their objects, the properties composing each
// object in dependency order, and the actions attached on object ids:
//
//	module "crm" {
//	  path = "example.com/crm"
//
//	  object "Customer" {
//	    property "storedobject" {}
//	    property "uniqueidentified" {
//	      action "Archive" {
//	        manage = true
//	        input  = { CUSTOMER = objectid(Customer) }
//	      }
//	    }
//	  }
//	}
package load

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"

	"github.com/syssam/lowcode"
	"github.com/syssam/lowcode/compiler/design"
	"github.com/syssam/lowcode/internal/ctxlog"
	"github.com/syssam/lowcode/schema/argument"
	"github.com/syssam/lowcode/schema/property"
)

// Config holds the configuration for loading model files.
type Config struct {
	// Paths are .hcl files or directories searched recursively for them.
	Paths []string
}

// Load parses the model files and returns the modules they declare, resolved
// and finalized, in declaration order.
func (c *Config) Load(ctx context.Context) ([]*design.Module, error) {
	logger := ctxlog.FromContext(ctx)
	files, err := findFiles(c.Paths)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("load: no .hcl model file found in %v", c.Paths)
	}
	logger.Debug("model files discovered", "count", len(files))

	parser := hclparse.NewParser()
	parsed := make([]*hcl.File, 0, len(files))
	for _, name := range files {
		f, diags := parser.ParseHCLFile(name)
		if diags.HasErrors() {
			return nil, fmt.Errorf("load: parse %s: %w", name, diags)
		}
		parsed = append(parsed, f)
	}
	return build(ctx, parsed)
}

// LoadSource loads the models of a single in-memory file.
func LoadSource(ctx context.Context, filename string, src []byte) ([]*design.Module, error) {
	f, diags := hclsyntax.ParseConfig(src, filename, hcl.InitialPos)
	if diags.HasErrors() {
		return nil, fmt.Errorf("load: parse %s: %w", filename, diags)
	}
	return build(ctx, []*hcl.File{f})
}

var (
	rootSchema = &hcl.BodySchema{
		Blocks: []hcl.BlockHeaderSchema{{Type: "module", LabelNames: []string{"name"}}},
	}
	moduleSchema = &hcl.BodySchema{
		Attributes: []hcl.AttributeSchema{{Name: "path"}},
		Blocks:     []hcl.BlockHeaderSchema{{Type: "object", LabelNames: []string{"name"}}},
	}
	objectSchema = &hcl.BodySchema{
		Blocks: []hcl.BlockHeaderSchema{{Type: "property", LabelNames: []string{"kind"}}},
	}
	propertySchema = &hcl.BodySchema{
		Blocks: []hcl.BlockHeaderSchema{{Type: "action", LabelNames: []string{"name"}}},
	}
)

// actionBlock is the body of an action block.
type actionBlock struct {
	Manage bool           `hcl:"manage,optional"`
	Input  hcl.Expression `hcl:"input"`
}

// actionAttacher is implemented by properties accepting object-id actions.
type actionAttacher interface {
	design.Property
	AddActionOnObjectIDInBand(a *design.Action, manage bool) error
}

// Declarations kept between passes.
type (
	objectDecl struct {
		object     *design.Object
		body       hcl.Body
		properties []propertyDecl
	}
	propertyDecl struct {
		property design.Property
		body     hcl.Body
		rng      hcl.Range
	}
)

type builder struct {
	ctx     context.Context
	modules []*design.Module
	objects map[*design.Module][]*objectDecl
}

func build(ctx context.Context, files []*hcl.File) ([]*design.Module, error) {
	b := &builder{ctx: ctx, objects: make(map[*design.Module][]*objectDecl)}
	for _, f := range files {
		if err := b.declare(f.Body); err != nil {
			return nil, err
		}
	}
	for _, m := range b.modules {
		if err := b.attach(m); err != nil {
			return nil, err
		}
	}
	errs := make([]error, 0, len(b.modules))
	for _, m := range b.modules {
		errs = append(errs, m.ResolveAll())
	}
	if err := lowcode.NewAggregateError(errs...); err != nil {
		return nil, err
	}
	for _, m := range b.modules {
		if err := b.actions(m); err != nil {
			return nil, err
		}
	}
	for _, m := range b.modules {
		if err := m.FinalizeSettings(); err != nil {
			return nil, err
		}
	}
	logger := ctxlog.FromContext(ctx)
	for _, m := range b.modules {
		logger.Info("module loaded", "module", m.Name(), "objects", len(m.Objects()))
	}
	return b.modules, nil
}

// declare creates the modules and objects of one file. Module blocks with the
// same name, in one file or several, declare one module.
func (b *builder) declare(body hcl.Body) error {
	content, diags := body.Content(rootSchema)
	if diags.HasErrors() {
		return diags
	}
	for _, block := range content.Blocks {
		mc, diags := block.Body.Content(moduleSchema)
		if diags.HasErrors() {
			return diags
		}
		var path string
		if attr, ok := mc.Attributes["path"]; ok {
			if diags := gohcl.DecodeExpression(attr.Expr, nil, &path); diags.HasErrors() {
				return diags
			}
		}
		m, err := b.module(block.Labels[0], path, block.DefRange)
		if err != nil {
			return err
		}
		for _, ob := range mc.Blocks {
			o, err := m.NewObject(ob.Labels[0], design.Site(ob.DefRange.String()))
			if err != nil {
				return err
			}
			b.objects[m] = append(b.objects[m], &objectDecl{object: o, body: ob.Body})
		}
	}
	return nil
}

// module returns the module called name, created on first declaration.
func (b *builder) module(name, path string, rng hcl.Range) (*design.Module, error) {
	idx := slices.IndexFunc(b.modules, func(m *design.Module) bool { return m.Name() == name })
	if idx >= 0 {
		m := b.modules[idx]
		if path != "" && path != m.Path() {
			return nil, fmt.Errorf("load: module %s: conflicting paths %q and %q (at %s)", name, m.Path(), path, rng)
		}
		return m, nil
	}
	opts := []design.Option{design.WithLogger(ctxlog.FromContext(b.ctx))}
	if path != "" {
		opts = append(opts, design.WithPath(path))
	}
	m, err := design.NewModule(name, opts...)
	if err != nil {
		return nil, err
	}
	b.modules = append(b.modules, m)
	return m, nil
}

// attach attaches the properties of every object of m in declaration order.
func (b *builder) attach(m *design.Module) error {
	for _, decl := range b.objects[m] {
		content, diags := decl.body.Content(objectSchema)
		if diags.HasErrors() {
			return diags
		}
		for _, block := range content.Blocks {
			p, err := property.New(block.Labels[0])
			if err != nil {
				return fmt.Errorf("load: object %s: %w (at %s)", decl.object.QualifiedName(), err, block.DefRange)
			}
			p.Base().SetSite(design.Site(block.DefRange.String()))
			if err := decl.object.Attach(p); err != nil {
				return err
			}
			decl.properties = append(decl.properties, propertyDecl{property: p, body: block.Body, rng: block.DefRange})
		}
	}
	return nil
}

// actions attaches the actions declared inside property blocks.
func (b *builder) actions(m *design.Module) error {
	for _, decl := range b.objects[m] {
		for _, pd := range decl.properties {
			content, diags := pd.body.Content(propertySchema)
			if diags.HasErrors() {
				return diags
			}
			if len(content.Blocks) == 0 {
				continue
			}
			attacher, ok := pd.property.(actionAttacher)
			if !ok {
				return fmt.Errorf("load: object %s: property %s does not accept actions (at %s)", decl.object.QualifiedName(), pd.property.Name(), pd.rng)
			}
			for _, block := range content.Blocks {
				a, manage, err := action(m, block)
				if err != nil {
					return err
				}
				if err := attacher.AddActionOnObjectIDInBand(a, manage); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// action builds the action declared by block and reports whether it goes
// to the manage band. Inputs are an object whose keys name the arguments and
// whose values are type expressions.
func action(m *design.Module, block *hcl.Block) (*design.Action, bool, error) {
	var ab actionBlock
	if diags := gohcl.DecodeBody(block.Body, nil, &ab); diags.HasErrors() {
		return nil, false, diags
	}
	pairs, diags := hcl.ExprMap(ab.Input)
	if diags.HasErrors() {
		return nil, false, diags
	}
	inputs := make([]argument.Content, 0, len(pairs))
	for _, kv := range pairs {
		name := hcl.ExprAsKeyword(kv.Key)
		if name == "" {
			return nil, false, diagnostic("Invalid argument name", "Input argument names must be bare identifiers.", kv.Key.Range())
		}
		content, diags := typeExpr(m, name, kv.Value)
		if diags.HasErrors() {
			return nil, false, diags
		}
		inputs = append(inputs, content)
	}
	return design.NewAction(block.Labels[0], design.Site(block.DefRange.String()), inputs...), ab.Manage, nil
}

func diagnostic(summary, detail string, rng hcl.Range) hcl.Diagnostics {
	return hcl.Diagnostics{{
		Severity: hcl.DiagError,
		Summary:  summary,
		Detail:   detail,
		Subject:  rng.Ptr(),
	}}
}

// findFiles walks paths and returns the .hcl files found, sorted per
// directory and without duplicates.
func findFiles(paths []string) ([]string, error) {
	var (
		files []string
		seen  = make(map[string]bool)
	)
	add := func(p string) {
		if filepath.Ext(p) == ".hcl" && !seen[p] {
			seen[p] = true
			files = append(files, p)
		}
	}
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("load: %w", err)
		}
		if !info.IsDir() {
			add(path)
			continue
		}
		err = filepath.WalkDir(path, func(p string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() {
				add(p)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("load: walk %s: %w", path, err)
		}
	}
	return files, nil
}
