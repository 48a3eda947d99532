package tracker

import (
	"strconv"
	"strings"
	"time"
)

// Work item field reference names used by the assessment pipeline.
const (
	FieldState          = "System.State"
	FieldTitle          = "System.Title"
	FieldDescription    = "System.Description"
	FieldCreatedDate    = "System.CreatedDate"
	FieldAcceptance     = "Microsoft.VSTS.Common.AcceptanceCriteria"
	FieldTestSteps      = "Microsoft.VSTS.TCM.Steps"
	FieldExpectedResult = "Microsoft.VSTS.TCM.ExpectedResult"
	FieldTestedBy       = "Custom.TestedBy"
	FieldTestsAuthored  = "Custom.TestCasesAuthored"
	FieldTestsReviewed  = "Custom.TestCasesReviewed"
)

// WorkItem is one tracker work item with its raw field map and relations.
// Field values are left untyped because the tracker mixes strings, booleans,
// and identity objects in the same map; use the accessor methods.
type WorkItem struct {
	ID        int            `json:"id"`
	Fields    map[string]any `json:"fields"`
	Relations []Relation     `json:"relations"`
}

// Relation links a work item to another artifact.
type Relation struct {
	Rel string `json:"rel"`
	URL string `json:"url"`
}

// StringField returns the named field as a string, or "" when absent or not
// a string.
func (w *WorkItem) StringField(name string) string {
	s, _ := w.Fields[name].(string)
	return s
}

// BoolField returns the named field as a bool. The tracker serializes toggle
// fields either as JSON booleans or as "True"/"False" strings depending on
// the API surface.
func (w *WorkItem) BoolField(name string) bool {
	switch v := w.Fields[name].(type) {
	case bool:
		return v
	case string:
		return strings.EqualFold(strings.TrimSpace(v), "true")
	default:
		return false
	}
}

// IdentityField returns the display name of an identity-valued field, or the
// raw string for older items where the field is a plain string.
func (w *WorkItem) IdentityField(name string) string {
	switch v := w.Fields[name].(type) {
	case string:
		return v
	case map[string]any:
		s, _ := v["displayName"].(string)
		return s
	default:
		return ""
	}
}

// TimeField parses the named field as an RFC 3339 timestamp. The zero time
// is returned when the field is absent or unparseable.
func (w *WorkItem) TimeField(name string) time.Time {
	s := w.StringField(name)
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// TestedByIDs extracts the work item IDs of linked test cases from the
// TestedBy relations.
func (w *WorkItem) TestedByIDs() []int {
	var ids []int
	for _, r := range w.Relations {
		if !strings.Contains(r.Rel, "TestedBy") {
			continue
		}
		seg := r.URL[strings.LastIndex(r.URL, "/")+1:]
		id, err := strconv.Atoi(seg)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

// Update is one revision of a work item: the set of fields that changed and
// when.
type Update struct {
	ID          int                    `json:"id"`
	RevisedDate time.Time              `json:"revisedDate"`
	Fields      map[string]FieldChange `json:"fields"`
}

// FieldChange is the old/new value pair for one field in an update.
type FieldChange struct {
	OldValue any `json:"oldValue"`
	NewValue any `json:"newValue"`
}

// NewString returns the update's new value as a string.
func (fc FieldChange) NewString() string {
	s, _ := fc.NewValue.(string)
	return s
}

// NewBool returns the update's new value as a bool, accepting the tracker's
// string encoding of booleans.
func (fc FieldChange) NewBool() bool {
	switch v := fc.NewValue.(type) {
	case bool:
		return v
	case string:
		return strings.EqualFold(strings.TrimSpace(v), "true")
	default:
		return false
	}
}
