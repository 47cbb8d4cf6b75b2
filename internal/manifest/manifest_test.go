package manifest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"xst/internal/store"
)

func writeManifest(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "types.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	return path
}

const listManifest = `
[manifest]
name = "list"

[[types]]
role = "struct"
name = "List.Empty"
args = ["Int64"]

[[types]]
role = "struct"
name = "List.Cons"
args = ["Int64"]

[[types.fields]]
type = "Int64"

[[types.fields]]
type = "List<Int64>"
out_of_line = true

[[types]]
role = "enum"
name = "List"
args = ["Int64"]

[[types.fields]]
type = "List.Cons<Int64>"

[[types.fields]]
type = "List.Empty<Int64>"
`

func TestLoadValidManifest(t *testing.T) {
	man, err := Load(writeManifest(t, listManifest))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if man.Config.Manifest.Name != "list" {
		t.Fatalf("name = %q", man.Config.Manifest.Name)
	}
	if len(man.Config.Types) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(man.Config.Types))
	}
	cons := man.Config.Types[1]
	if len(cons.Fields) != 2 || !cons.Fields[1].OutOfLine {
		t.Fatalf("cons fields parsed wrong: %+v", cons.Fields)
	}
}

func TestLoadRejectsMissingName(t *testing.T) {
	_, err := Load(writeManifest(t, "[manifest]\n"))
	if err == nil || !strings.Contains(err.Error(), "missing [manifest].name") {
		t.Fatalf("expected missing-name error, got %v", err)
	}
}

func TestLoadRejectsBadRole(t *testing.T) {
	body := "[manifest]\nname = \"x\"\n\n[[types]]\nrole = \"union\"\nname = \"T\"\n"
	_, err := Load(writeManifest(t, body))
	if err == nil || !strings.Contains(err.Error(), "role must be") {
		t.Fatalf("expected role error, got %v", err)
	}
}

func TestApplyDefinesRecursiveList(t *testing.T) {
	man, err := Load(writeManifest(t, listManifest))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	s := store.New()
	applied, err := man.Apply(s)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(applied) != 3 {
		t.Fatalf("expected 3 applied entries, got %d", len(applied))
	}
	for _, a := range applied {
		if !a.Metatype.Defined() {
			t.Fatalf("%s not defined", a.Type)
		}
	}
	cons := applied[1]
	if cons.Type.Description() != "List.Cons<Int64>" {
		t.Fatalf("cons = %s", cons.Type)
	}
	if cons.Metatype.Size() != 16 || cons.Metatype.Align() != 8 {
		t.Fatalf("cons layout %d/%d, want 16/8", cons.Metatype.Size(), cons.Metatype.Align())
	}
	list := applied[2]
	if list.Metatype.OffsetsLen() != 2 {
		t.Fatalf("list should carry payload and tag slots")
	}
	if err := s.LeakCheck(); err != nil {
		t.Fatalf("LeakCheck: %v", err)
	}
}

func TestApplyRejectsUnknownTypeExpression(t *testing.T) {
	body := `
[manifest]
name = "bad"

[[types]]
role = "struct"
name = "Holder"

[[types.fields]]
type = "Mystery"
`
	man, err := Load(writeManifest(t, body))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, err := man.Apply(store.New()); err == nil || !strings.Contains(err.Error(), "not described by this manifest") {
		t.Fatalf("expected unknown-type error, got %v", err)
	}
}

func TestApplyRejectsBuiltinWithArguments(t *testing.T) {
	body := `
[manifest]
name = "bad"

[[types]]
role = "struct"
name = "Holder"

[[types.fields]]
type = "Int64<Bool>"
`
	man, err := Load(writeManifest(t, body))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, err := man.Apply(store.New()); err == nil || !strings.Contains(err.Error(), "takes no type arguments") {
		t.Fatalf("expected builtin-arity error, got %v", err)
	}
}

func TestApplyFailsOnDuplicateDefinition(t *testing.T) {
	body := `
[manifest]
name = "dup"

[[types]]
role = "struct"
name = "Unit"

[[types]]
role = "struct"
name = "Unit"
`
	man, err := Load(writeManifest(t, body))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, err := man.Apply(store.New()); err == nil || !strings.Contains(err.Error(), "already defined") {
		t.Fatalf("expected redefinition error, got %v", err)
	}
}
