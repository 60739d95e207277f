package migrations

import (
	"reflect"
	"testing"
	"testing/fstest"

	schema "github.com/yigit/studentrecords/migrations"
)

func TestMigrationVersion(t *testing.T) {
	tests := map[string]string{
		"001_create_students_table.sql": "001",
		"dir/002_add_index.sql":         "002",
		"003.sql":                       "003.sql",
	}

	for in, want := range tests {
		if got := MigrationVersion(in); got != want {
			t.Errorf("MigrationVersion(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSortedSQLFiles(t *testing.T) {
	fsys := fstest.MapFS{
		"002_second.sql":   {Data: []byte("SELECT 2;")},
		"001_first.sql":    {Data: []byte("SELECT 1;")},
		"README.md":        {Data: []byte("docs")},
		"nested/003_x.sql": {Data: []byte("SELECT 3;")},
	}

	files, err := SortedSQLFiles(fsys)
	if err != nil {
		t.Fatalf("SortedSQLFiles() error = %v", err)
	}

	want := []string{"001_first.sql", "002_second.sql"}
	if !reflect.DeepEqual(files, want) {
		t.Errorf("SortedSQLFiles() = %v, want %v", files, want)
	}
}

func TestEmbeddedSchemaIsPresent(t *testing.T) {
	files, err := SortedSQLFiles(schema.FS)
	if err != nil {
		t.Fatalf("SortedSQLFiles() error = %v", err)
	}
	if len(files) == 0 || files[0] != "001_create_students_table.sql" {
		t.Fatalf("embedded migrations = %v", files)
	}
}
