package audit

import (
	"strings"
	"testing"
)

func TestBuildBaseQuery(t *testing.T) {
	s := &Service{}

	query, args := s.buildBaseQuery("SELECT COUNT(1)", Filter{})
	if query != "SELECT COUNT(1) FROM audit_events WHERE 1=1" || len(args) != 0 {
		t.Fatalf("unexpected base query %q %v", query, args)
	}

	query, args = s.buildBaseQuery("SELECT COUNT(1)", Filter{Action: "performance.checkin.update", EntityType: "checkin", EntityID: "c1"})
	if len(args) != 3 {
		t.Fatalf("expected 3 args, got %d", len(args))
	}
	for _, fragment := range []string{"action = $1", "entity_type = $2", "entity_id = $3"} {
		if !strings.Contains(query, fragment) {
			t.Fatalf("expected %q in %q", fragment, query)
		}
	}
}
