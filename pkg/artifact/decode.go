package artifact

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var validate = validator.New()

// decodeDocument unmarshals b into v, choosing YAML or JSON from the name's
// extension, and then validates v's struct tags.
func decodeDocument(name string, b []byte, v interface{}) error {
	if len(bytes.TrimSpace(b)) == 0 {
		return fmt.Errorf("artifact %s is empty", name)
	}
	switch strings.ToLower(path.Ext(name)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, v); err != nil {
			return fmt.Errorf("failed to unmarshal yaml artifact %s: %w", name, err)
		}
	default:
		if err := json.Unmarshal(b, v); err != nil {
			return fmt.Errorf("failed to unmarshal json artifact %s: %w", name, err)
		}
	}
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("invalid artifact %s: %w", name, err)
	}
	return nil
}
