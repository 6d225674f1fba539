// Package gen generates TypeScript table typings for Kysely (and,
// optionally, Knex) from a database tree.
//
// # Architecture
//
// The generation pipeline follows this flow:
//
//	Database tree (load.Tree, from a schema file or introspection)
//	        ↓
//	   Graph (canonical names, per-table configuration)
//	        ↓
//	   Builders (ts.File per artifact, built in parallel)
//	        ↓
//	   Header, render, format
//	        ↓
//	   Writer (generated files rewritten, scaffolds created once)
//
// # Error Handling
//
// The package uses structured error types:
//
//   - SchemaError: the tree is invalid or two names collide
//   - ConfigError: invalid configuration
//   - GenerationError: a phase of the run failed
//   - ExistsError: a scaffold already exists (never surfaced by Generate)
//
// Example error handling:
//
//	graph, err := gen.NewGraph(config, tree)
//	if err != nil {
//	    if gen.IsSchemaError(err) {
//	        // Rename the clashing table or schema
//	    }
//	    return err
//	}
//
// # Configuration
//
// Configuration is done via the functional options pattern:
//
//	config, err := gen.NewConfig(
//	    gen.WithTarget("./src/db"),
//	    gen.WithCustomizableTables("public", "users"),
//	    gen.WithFeatures(gen.FeatureKnex),
//	)
//
// or loaded from a YAML file, with relative paths resolved against the
// directory of the file:
//
//	config, err := gen.LoadConfig("dbtypegen.yaml")
//
// # Usage
//
//	report, err := gen.Generate(ctx, config, tree)
//
// Or configure the generator manually:
//
//	graph, err := gen.NewGraph(config, tree)
//	report, err := gen.NewGenerator(graph).
//	    WithWorkers(4).
//	    WithLogger(logger).
//	    Generate(ctx)
//
// # Generated Output
//
//	{output}/
//	├── generated/
//	│   ├── index.ts             // DatabaseSchemas, DatabaseTables, re-exports
//	│   ├── kysely.ts            // KyselyDatabase, KyselyTransaction
//	│   ├── knex.ts              // "knex/types/tables" augmentation (knex feature)
//	│   ├── utils.ts             // KyselyTable and customization helpers
//	│   └── {schema}/
//	│       ├── index.ts         // {Schema}Tables, type maps
//	│       ├── {Table}.ts       // {Table}, {Table}Initializer
//	│       └── {Table}QueryTypes.ts
//	└── custom/
//	    └── {schema}/
//	        └── {Table}CustomTypes.ts  // created once, owned by the user
//
// # Features
//
//   - knex: Knex table typings. Disabling it removes generated/knex.ts.
package gen
