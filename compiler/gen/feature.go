package gen

var (
	// FeatureKnex provides a feature-flag for the secondary (Knex) target:
	// per-schema KnexSchemaTypeMap interfaces, the generated/knex.ts module
	// augmentation and the knex namespace export.
	FeatureKnex = Feature{
		Name:        "knex",
		Default:     false,
		Description: "Generates Knex table typings through a \"knex/types/tables\" module augmentation",
		stale:       []string{KnexPath},
	}

	// AllFeatures holds a list of all feature-flags.
	AllFeatures = []Feature{
		FeatureKnex,
	}
)

// A Feature of the generator.
type Feature struct {
	// Name of the feature.
	Name string

	// Default values indicates if this feature is enabled by default.
	Default bool

	// A Description of this feature.
	Description string

	// stale lists the artifact paths owned by the feature. They are removed
	// from the output when the feature is disabled, so a previous run that
	// had it enabled leaves nothing behind.
	stale []string
}

// FeatureByName returns the feature with the given name.
func FeatureByName(name string) (Feature, bool) {
	for _, f := range AllFeatures {
		if f.Name == name {
			return f, true
		}
	}
	return Feature{}, false
}
