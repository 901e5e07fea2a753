// Package gen writes Go packages from finalized design modules.
//
// Every module becomes one package in its own directory below the target:
//
//	<target>/<module>/
//	├── id.go                 the generic ID[T] type
//	├── <object>.go           struct, <Object>Access interface, actions
//	├── <object>_<property>.go dependent class written by a property
//	├── schema.sql            with FeatureSQL
//	└── snapshot.msgpack      with FeatureSnapshot
//
// Object files are built with jennifer. Dependent class bodies come from the
// properties through design.Sink and are formatted with goimports. Files are
// written in parallel, bounded by Config.Workers.
//
// Usage:
//
//	cfg, err := gen.NewConfig(
//		gen.WithTarget("./model"),
//		gen.WithPackage("example.com/app/model"),
//		gen.WithFeatures(gen.FeatureSQL),
//	)
//	if err != nil {
//		return err
//	}
//	g, err := gen.NewGenerator(cfg, modules...)
//	if err != nil {
//		return err
//	}
//	return g.Generate(ctx)
package gen
