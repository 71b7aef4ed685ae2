package errors

import "testing"

func TestValidateSessionID(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{"valid uuid", "a8098c1a-f86e-11da-bd1a-00112444be1e", false},
		{"valid name", "my-session_01", false},
		{"empty", "", true},
		{"path separator", "foo/bar", true},
		{"traversal", "..secret", true},
		{"backslash", "foo\\bar", true},
		{"control character", "abc\x01def", true},
		{"too long", string(make([]byte, 200)), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSessionID(tt.id)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateSessionID(%q) error = %v, wantErr %v", tt.id, err, tt.wantErr)
			}
			if err != nil && GetCode(err) != ErrCodeInvalidID {
				t.Errorf("GetCode() = %v, want %v", GetCode(err), ErrCodeInvalidID)
			}
		})
	}
}

func TestValidatePresetName(t *testing.T) {
	tests := []struct {
		name    string
		preset  string
		wantErr bool
	}{
		{"simple", "sierpinski", false},
		{"dashed", "hexweb-fine", false},
		{"digits", "ngon12", false},
		{"empty", "", true},
		{"uppercase", "Sierpinski", true},
		{"leading dash", "-bad", true},
		{"double dash", "a--b", true},
		{"path-ish", "../evil", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePresetName(tt.preset)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePresetName(%q) error = %v, wantErr %v", tt.preset, err, tt.wantErr)
			}
		})
	}
}

func TestValidateBatchSize(t *testing.T) {
	tests := []struct {
		name     string
		n        int
		maxBatch int
		wantErr  bool
	}{
		{"positive below cap", 1000, 5000, false},
		{"exactly at cap", 5000, 5000, false},
		{"cap disabled", 10000000, 0, false},
		{"zero", 0, 5000, true},
		{"negative", -3, 5000, true},
		{"above cap", 5001, 5000, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBatchSize(tt.n, tt.maxBatch)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateBatchSize(%d, %d) error = %v, wantErr %v", tt.n, tt.maxBatch, err, tt.wantErr)
			}
			if err != nil && GetCode(err) != ErrCodeInvalidInput {
				t.Errorf("GetCode() = %v, want %v", GetCode(err), ErrCodeInvalidInput)
			}
		})
	}
}

func TestValidateListenAddr(t *testing.T) {
	tests := []struct {
		name    string
		addr    string
		wantErr bool
	}{
		{"port only", ":8632", false},
		{"host and port", "127.0.0.1:8632", false},
		{"empty", "", true},
		{"missing port", "localhost", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateListenAddr(tt.addr)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateListenAddr(%q) error = %v, wantErr %v", tt.addr, err, tt.wantErr)
			}
		})
	}
}
