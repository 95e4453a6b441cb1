package settings

import (
	_ "embed"
	"fmt"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
)

//go:embed schema.cue
var schemaSource string

var (
	schemaOnce sync.Once
	schemaCtx  *cue.Context
	schemaDef  cue.Value
	schemaErr  error
)

func settingsSchema() (*cue.Context, cue.Value, error) {
	schemaOnce.Do(func() {
		schemaCtx = cuecontext.New()
		compiled := schemaCtx.CompileString(schemaSource, cue.Filename("schema.cue"))
		if err := compiled.Err(); err != nil {
			schemaErr = fmt.Errorf("settings: compile schema: %w", err)
			return
		}
		schemaDef = compiled.LookupPath(cue.ParsePath("#Settings"))
		if err := schemaDef.Err(); err != nil {
			schemaErr = fmt.Errorf("settings: lookup #Settings: %w", err)
		}
	})
	return schemaCtx, schemaDef, schemaErr
}

var validateMu sync.Mutex

// Validate checks a decoded settings document against the embedded CUE
// schema. Unknown keys are rejected because #Settings is closed.
func Validate(raw map[string]any) error {
	validateMu.Lock()
	defer validateMu.Unlock()

	ctx, def, err := settingsSchema()
	if err != nil {
		return err
	}
	value := ctx.Encode(raw)
	if err := value.Err(); err != nil {
		return fmt.Errorf("settings: encode document: %w", err)
	}
	unified := def.Unify(value)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("settings: invalid document: %s", errors.Details(err, nil))
	}
	return nil
}
