package chat

import (
	"strings"
	"testing"
)

func TestAssistantRespond(t *testing.T) {
	a := NewAssistantWithPicker(func(n int) int { return n - 1 })
	tests := []struct {
		message string
		typ     string
		query   string
	}{
		{message: "J'ai besoin d'aide", typ: TypeHelp},
		{message: "HELP", typ: TypeHelp},
		{message: "/image  Plage au coucher du soleil ", typ: TypeImageSearch, query: "plage au coucher du soleil"},
		{message: "Comment modifier le titre ?", typ: TypeEditHelp},
		{message: "Mode ÉDITION", typ: TypeEditHelp},
		{message: "Bonjour", typ: TypeGeneral},
	}
	for _, tc := range tests {
		t.Run(tc.message, func(t *testing.T) {
			got := a.Respond(tc.message)
			if got.Type != tc.typ {
				t.Fatalf("Type = %q, want %q", got.Type, tc.typ)
			}
			if got.Query != tc.query {
				t.Fatalf("Query = %q, want %q", got.Query, tc.query)
			}
			if got.Message == "" {
				t.Fatalf("empty message")
			}
		})
	}
}

func TestAssistantGeneralUsesPicker(t *testing.T) {
	got := NewAssistantWithPicker(func(n int) int { return 4 }).Respond("salut")
	if !strings.Contains(got.Message, "/image") {
		t.Fatalf("Message = %q", got.Message)
	}
	got = NewAssistantWithPicker(func(n int) int { return 99 }).Respond("salut")
	if got.Message != generalReplies[0] {
		t.Fatalf("out of range pick = %q", got.Message)
	}
}

func TestAssistantImageQueryPrecedesEdit(t *testing.T) {
	got := NewAssistant().Respond("/image modifier")
	if got.Type != TypeImageSearch || got.Query != "modifier" {
		t.Fatalf("got %+v", got)
	}
}
