package docs

import (
	"reflect"
	"strings"
	"testing"
)

func TestTopics(t *testing.T) {
	want := []string{"config", "import", "keys", "server"}
	if got := Topics(); !reflect.DeepEqual(got, want) {
		t.Fatalf("Topics() = %v, want %v", got, want)
	}
}

func TestGet(t *testing.T) {
	body, ok := Get(" Keys ")
	if !ok || !strings.HasPrefix(body, "# Keys") {
		t.Fatalf("Get(keys) = %q, %v", body, ok)
	}
	for _, topic := range []string{"", "missing", "../docs"} {
		if _, ok := Get(topic); ok {
			t.Fatalf("Get(%q) should fail", topic)
		}
	}
}
