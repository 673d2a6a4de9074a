package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// ManifestSchema is a trimmed-down module manifest schema used in tests.
const ManifestSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["description"],
  "properties": {
    "description": {"type": "string"},
    "enable_external_mqtt": {"type": "boolean", "default": false},
    "metadata": {"type": "object"},
    "config": {"$ref": "#/definitions/config_set"},
    "provides": {
      "type": "object",
      "additionalProperties": {
        "type": "object",
        "required": ["interface", "description"],
        "properties": {
          "interface": {"type": "string"},
          "description": {"type": "string"},
          "config": {"$ref": "#/definitions/config_set"}
        }
      }
    },
    "requires": {
      "type": "object",
      "additionalProperties": {
        "type": "object",
        "required": ["interface"],
        "properties": {
          "interface": {"type": "string"},
          "min_connections": {"type": "integer", "minimum": 0},
          "max_connections": {"type": "integer", "minimum": 1}
        }
      }
    }
  },
  "definitions": {
    "config_set": {
      "type": "object",
      "additionalProperties": {
        "type": "object",
        "required": ["type"],
        "properties": {
          "description": {"type": "string", "default": ""}
        }
      }
    }
  }
}
`

// InterfaceSchema is a trimmed-down interface definition schema used in tests.
const InterfaceSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["description"],
  "properties": {
    "description": {"type": "string"},
    "vars": {
      "type": "object",
      "additionalProperties": {"type": "object", "required": ["type"]}
    },
    "cmds": {
      "type": "object",
      "additionalProperties": {
        "type": "object",
        "properties": {
          "description": {"type": "string"},
          "arguments": {
            "type": "object",
            "additionalProperties": {"type": "object", "required": ["type"]}
          },
          "result": {"type": "object", "required": ["type"]}
        }
      }
    }
  }
}
`

// PowerMeterInterface declares variables and commands in non-alphabetical order.
const PowerMeterInterface = `{
  "description": "Power meter readings",
  "vars": {
    "energy_wh": {"description": "Imported energy", "type": "number"},
    "status": {"type": "string", "enum": ["OK", "FAULT"]},
    "samples": {"type": "array", "items": {"type": "integer"}}
  },
  "cmds": {
    "start_transaction": {
      "description": "Starts a transaction",
      "arguments": {
        "id": {"type": "string"},
        "limit": {"type": ["null", "number"]}
      },
      "result": {"description": "Accepted", "type": "boolean"}
    },
    "reset": {"description": "Resets the meter"}
  }
}
`

// EvseManagerInterface has one variable and one command.
const EvseManagerInterface = `{
  "description": "EVSE manager",
  "vars": {
    "session_event": {"type": "object", "$ref": "/evse_manager#/SessionEvent"}
  },
  "cmds": {
    "enable": {"result": {"type": "boolean"}}
  }
}
`

// StoreInterface has zero variables and one command.
const StoreInterface = `{
  "description": "Key value store",
  "cmds": {
    "store": {
      "arguments": {
        "key": {"type": "string"},
        "value": {"type": ["null", "string", "number", "integer", "boolean", "array", "object"]}
      }
    }
  }
}
`

// SampleManifest provides power_meter and store, and requires evse_manager.
const SampleManifest = `{
  "description": "Sample charging module",
  "config": {
    "port": {"description": "Serial port", "type": "string"}
  },
  "provides": {
    "meter": {
      "interface": "power_meter",
      "description": "Meter implementation",
      "config": {
        "max_current": {"type": "number"}
      }
    },
    "kvs": {
      "interface": "store",
      "description": "Store implementation"
    }
  },
  "requires": {
    "evse": {"interface": "evse_manager", "min_connections": 1, "max_connections": 3},
    "peer": {"interface": "power_meter"}
  }
}
`

// Tree is an everest directory and a framework directory in a temp dir.
type Tree struct {
	Root         string
	EverestDir   string
	FrameworkDir string
	SchemaDir    string
}

// NewTree creates an empty everest directory (with interfaces/ and modules/)
// and a framework directory holding the test schemas.
func NewTree(t *testing.T) *Tree {
	t.Helper()
	root := t.TempDir()
	tr := &Tree{
		Root:         root,
		EverestDir:   filepath.Join(root, "everest"),
		FrameworkDir: filepath.Join(root, "everest-framework"),
	}
	tr.SchemaDir = filepath.Join(tr.FrameworkDir, "schemas")

	mkdir(t, filepath.Join(tr.EverestDir, "interfaces"))
	mkdir(t, filepath.Join(tr.EverestDir, "modules"))
	tr.WriteFile(t, filepath.Join("everest-framework", "schemas", "manifest.json"), ManifestSchema)
	tr.WriteFile(t, filepath.Join("everest-framework", "schemas", "interface.json"), InterfaceSchema)
	return tr
}

// SampleTree creates a tree holding the sample interfaces and the "Sample" module.
func SampleTree(t *testing.T) *Tree {
	t.Helper()
	tr := NewTree(t)
	tr.WriteInterface(t, "power_meter", PowerMeterInterface)
	tr.WriteInterface(t, "evse_manager", EvseManagerInterface)
	tr.WriteInterface(t, "store", StoreInterface)
	tr.WriteModule(t, "Sample", SampleManifest)
	return tr
}

// WriteInterface writes interfaces/<name>.json and returns its path.
func (tr *Tree) WriteInterface(t *testing.T, name, content string) string {
	t.Helper()
	return tr.WriteFile(t, filepath.Join("everest", "interfaces", name+".json"), content)
}

// WriteModule writes modules/<name>/manifest.json and returns its path.
func (tr *Tree) WriteModule(t *testing.T, name, content string) string {
	t.Helper()
	return tr.WriteFile(t, filepath.Join("everest", "modules", name, "manifest.json"), content)
}

// WriteFile writes content to a path relative to the tree root.
func (tr *Tree) WriteFile(t *testing.T, rel, content string) string {
	t.Helper()
	p := filepath.Join(tr.Root, rel)
	mkdir(t, filepath.Dir(p))
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", p, err)
	}
	return p
}

// Snapshot returns every regular file below dir with its content.
func Snapshot(t *testing.T, dir string) map[string]string {
	t.Helper()
	out := make(map[string]string)
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		rel, _ := filepath.Rel(dir, path)
		out[filepath.ToSlash(rel)] = string(data)
		return nil
	})
	if err != nil {
		t.Fatalf("snapshot %s: %v", dir, err)
	}
	return out
}

func mkdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
}
