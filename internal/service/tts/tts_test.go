package tts

import (
	"errors"
	"strings"
	"testing"
)

func TestBuildRequest_Solo(t *testing.T) {
	t.Parallel()

	req, err := BuildRequest("Achetez maintenant !", Selection{First: SpeakerBinding{Speaker: "Pierre", VoiceID: "Orus"}}, "STYLE")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Dialogue() {
		t.Error("expected solo request")
	}
	if len(req.Speakers) != 1 || req.Speakers[0].VoiceID != "Orus" {
		t.Errorf("speakers = %+v", req.Speakers)
	}
	if req.Prompt != "STYLE\n\nAchetez maintenant !" {
		t.Errorf("prompt = %q", req.Prompt)
	}
}

func TestBuildRequest_NoStyle(t *testing.T) {
	t.Parallel()

	req, err := BuildRequest("Texte", Selection{First: SpeakerBinding{Speaker: "Pierre", VoiceID: "Orus"}}, "  ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Prompt != "Texte" {
		t.Errorf("prompt = %q, want literal script", req.Prompt)
	}
}

func TestBuildRequest_Dialogue(t *testing.T) {
	t.Parallel()

	script := "Pierre: [enthusiastic] Salut !\nSophie: [laughing] Bonjour !"
	sel := Selection{
		First:  SpeakerBinding{Speaker: "Pierre", VoiceID: "Orus"},
		Second: &SpeakerBinding{Speaker: "Sophie", VoiceID: "Kore"},
	}
	req, err := BuildRequest(script, sel, "STYLE")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !req.Dialogue() || len(req.Speakers) != 2 {
		t.Fatalf("speakers = %+v, want two", req.Speakers)
	}
	names := map[string]string{}
	for _, s := range req.Speakers {
		names[s.Speaker] = s.VoiceID
	}
	if names["Pierre"] != "Orus" || names["Sophie"] != "Kore" {
		t.Errorf("bindings = %v", names)
	}
	if !strings.HasPrefix(req.Prompt, "STYLE\n\n"+DialoguePreamble) {
		t.Errorf("prompt does not start with style + preamble: %q", req.Prompt)
	}
	if !strings.HasSuffix(req.Prompt, script) {
		t.Errorf("prompt does not end with the literal script: %q", req.Prompt)
	}
	for _, line := range strings.Split(script, "\n") {
		speaker := line[:strings.Index(line, ":")]
		if _, ok := names[speaker]; !ok {
			t.Errorf("line %q names unknown speaker %q", line, speaker)
		}
	}
}

func TestBuildRequest_Errors(t *testing.T) {
	t.Parallel()

	if _, err := BuildRequest("   ", Selection{First: SpeakerBinding{Speaker: "A", VoiceID: "Orus"}}, ""); !errors.Is(err, ErrEmptyText) {
		t.Errorf("blank script: err = %v, want ErrEmptyText", err)
	}
	sel := Selection{
		First:  SpeakerBinding{Speaker: "Pierre", VoiceID: "Orus"},
		Second: &SpeakerBinding{Speaker: "Pierre", VoiceID: "Kore"},
	}
	if _, err := BuildRequest("x", sel, ""); !errors.Is(err, ErrSpeakersNotDistinct) {
		t.Errorf("same speakers: err = %v, want ErrSpeakersNotDistinct", err)
	}
}
