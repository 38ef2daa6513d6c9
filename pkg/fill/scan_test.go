package fill

import "testing"

func TestScan(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []Region
	}{
		{
			name: "single contiguous region",
			text: `<w:t>before {{title}} after</w:t>`,
			want: []Region{{Start: 12, End: 21, Name: "title"}},
		},
		{
			name: "region split by markup",
			text: `<w:t>{{ti</w:t><w:t>tle}}</w:t>`,
			want: []Region{{Start: 5, End: 25, Name: "title"}},
		},
		{
			name: "two adjacent regions",
			text: `{{a}}{{b}}`,
			want: []Region{
				{Start: 0, End: 5, Name: "a"},
				{Start: 5, End: 10, Name: "b"},
			},
		},
		{
			name: "unclosed opening is not a region",
			text: `text {{dangling and more text`,
			want: nil,
		},
		{
			name: "empty text",
			text: "",
			want: nil,
		},
		{
			name: "braces only",
			text: "{}",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Scan(tt.text)
			if len(got) != len(tt.want) {
				t.Fatalf("Scan() returned %d regions, want %d: %+v", len(got), len(tt.want), got)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("Scan()[%d] = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestScanNestedBraces(t *testing.T) {
	// Overlapping opening pairs each walk to their own close; the innermost
	// complete pair is the one carrying a clean name.
	got := Scan(`{{{{name}}}}`)
	if len(got) != 3 {
		t.Fatalf("Scan() returned %d regions, want 3: %+v", len(got), got)
	}
	inner := got[2]
	if inner.Name != "name" || inner.Start != 2 || inner.End != 10 {
		t.Errorf("innermost region = %+v, want {Start:2 End:10 Name:name}", inner)
	}
	if got[0].Name != "{{name}" {
		t.Errorf("outermost region name = %q, want %q", got[0].Name, "{{name}")
	}
}

func TestStripTags(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"name", "name"},
		{"na<w:rPr><w:b/></w:rPr>me", "name"},
		{"na</w:t><w:t>me", "name"},
		{"<w:t></w:t>", ""},
		{"no tags at all", "no tags at all"},
	}
	for _, tt := range tests {
		if got := StripTags(tt.in); got != tt.want {
			t.Errorf("StripTags(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
