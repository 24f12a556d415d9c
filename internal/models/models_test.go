package models

import (
	"reflect"
	"strings"
	"testing"
)

// gormTag extracts the gorm tag from a struct field.
func gormTag(t *testing.T, typ reflect.Type, fieldName string) string {
	t.Helper()
	f, ok := typ.FieldByName(fieldName)
	if !ok {
		t.Fatalf("%s.%s: field not found", typ.Name(), fieldName)
	}
	return f.Tag.Get("gorm")
}

// assertGormTag checks that a struct field's gorm tag contains the expected value.
func assertGormTag(t *testing.T, typ reflect.Type, fieldName, expected string) {
	t.Helper()
	tag := gormTag(t, typ, fieldName)
	if !strings.Contains(tag, expected) {
		t.Errorf("%s.%s gorm tag = %q, want to contain %q", typ.Name(), fieldName, tag, expected)
	}
}

// assertFieldType checks that a struct field has the expected Go type.
func assertFieldType(t *testing.T, typ reflect.Type, fieldName, expectedType string) {
	t.Helper()
	f, ok := typ.FieldByName(fieldName)
	if !ok {
		t.Fatalf("%s.%s: field not found", typ.Name(), fieldName)
	}
	got := f.Type.String()
	if got != expectedType {
		t.Errorf("%s.%s type = %q, want %q", typ.Name(), fieldName, got, expectedType)
	}
}

func TestProject_Fields(t *testing.T) {
	typ := reflect.TypeOf(Project{})

	assertGormTag(t, typ, "ID", "primaryKey")
	assertGormTag(t, typ, "ID", "size:32")
	assertGormTag(t, typ, "Name", "not null")
	assertGormTag(t, typ, "Client", "index")
	assertGormTag(t, typ, "Phase", "size:16")
	assertGormTag(t, typ, "Phase", "index")
	assertGormTag(t, typ, "Milestones", "not null")
	assertGormTag(t, typ, "Done", "not null")
	assertGormTag(t, typ, "PhaseSince", "size:10")
	assertGormTag(t, typ, "CompletedAt", "size:10")
	assertGormTag(t, typ, "LastContact", "size:10")
	assertGormTag(t, typ, "CadenceDays", "default:14")

	assertFieldType(t, typ, "ID", "string")
	assertFieldType(t, typ, "Value", "float64")
	assertFieldType(t, typ, "Milestones", "datatypes.JSON")
	assertFieldType(t, typ, "Done", "datatypes.JSON")
	assertFieldType(t, typ, "PhaseSince", "*string")
	assertFieldType(t, typ, "CompletedAt", "*string")
	assertFieldType(t, typ, "LastContact", "*string")
	assertFieldType(t, typ, "CadenceDays", "int")
	assertFieldType(t, typ, "CreatedAt", "time.Time")
	assertFieldType(t, typ, "UpdatedAt", "time.Time")
}

func TestNotification_Fields(t *testing.T) {
	typ := reflect.TypeOf(Notification{})

	assertGormTag(t, typ, "ID", "primaryKey")
	assertGormTag(t, typ, "ID", "autoIncrement")
	for _, f := range []string{"Kind", "Platform", "ChannelID", "Day"} {
		assertGormTag(t, typ, f, "uniqueIndex:idx_notification_once")
		assertGormTag(t, typ, f, "not null")
	}
	assertGormTag(t, typ, "Body", "type:text")
	assertGormTag(t, typ, "SentAt", "index")

	assertFieldType(t, typ, "ID", "uint")
	assertFieldType(t, typ, "Day", "string")
	assertFieldType(t, typ, "SentAt", "time.Time")
}
