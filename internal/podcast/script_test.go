package podcast

import "testing"

func TestNewScript(t *testing.T) {
	tests := []struct {
		name    string
		turns   []Turn
		wantErr bool
	}{
		{"valid", []Turn{{SpeakerHost, "hi"}, {SpeakerGuest, "hello"}}, false},
		{"empty", nil, true},
		{"blank turn", []Turn{{SpeakerHost, "hi"}, {SpeakerGuest, "   "}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewScript(tt.turns)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewScript() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestScriptDerivedProperties(t *testing.T) {
	s, err := NewScript([]Turn{
		{SpeakerHost, "abcd"},
		{SpeakerGuest, "efg"},
		{SpeakerHost, "hij"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if got := s.CharLen(); got != 10 {
		t.Errorf("CharLen() = %d, want 10", got)
	}
	if got := s.TurnCount(); got != 3 {
		t.Errorf("TurnCount() = %d, want 3", got)
	}
	if got := s.SpeakerShare(SpeakerGuest); got < 0.33 || got > 0.34 {
		t.Errorf("SpeakerShare(GUEST) = %f", got)
	}
}

func TestParseSpeaker(t *testing.T) {
	tests := []struct {
		raw  string
		want Speaker
		ok   bool
	}{
		{"HOST", SpeakerHost, true},
		{"host", SpeakerHost, true},
		{" Guest ", SpeakerGuest, true},
		{"NARRATOR", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := ParseSpeaker(tt.raw)
			if ok != tt.ok || got != tt.want {
				t.Errorf("ParseSpeaker(%q) = (%v, %v), want (%v, %v)", tt.raw, got, ok, tt.want, tt.ok)
			}
		})
	}
}
