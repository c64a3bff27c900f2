package normalizer

import "testing"

func TestParseSheetName(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    SheetMeta
		wantErr bool
	}{
		{
			name: "english full month",
			in:   "Citation - N123AB - March-2025",
			want: SheetMeta{Model: "Citation", Prefix: "N123AB", Month: 3, Year: 2025},
		},
		{
			name: "portuguese month",
			in:   "EC135 - PR-HTC - Março-2024",
			want: SheetMeta{Model: "EC135", Prefix: "PR-HTC", Month: 3, Year: 2024},
		},
		{
			name: "abbreviated month case insensitive",
			in:   "Phenom - pp-xyz - DEZ-2025",
			want: SheetMeta{Model: "Phenom", Prefix: "PP-XYZ", Month: 12, Year: 2025},
		},
		{
			name:    "missing segment",
			in:      "Citation - March-2025",
			wantErr: true,
		},
		{
			name:    "unknown month",
			in:      "Citation - N123AB - Smarch-2025",
			wantErr: true,
		},
		{
			name:    "no year",
			in:      "Citation - N123AB - March",
			wantErr: true,
		},
		{
			name:    "unrelated sheet",
			in:      "Notes",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSheetName(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseSheetName(%q) expected error, got %+v", tt.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseSheetName(%q) unexpected error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseSheetName(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}
