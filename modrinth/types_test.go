package modrinth

import "testing"

func TestPrimaryFile(t *testing.T) {
	tests := []struct {
		name  string
		files []File
		want  string // filename, "" means nil
	}{
		{
			name: "marked primary wins",
			files: []File{
				{Filename: "sources.jar"},
				{Filename: "sodium.jar", Primary: true},
			},
			want: "sodium.jar",
		},
		{
			name: "no primary falls back to first",
			files: []File{
				{Filename: "first.jar"},
				{Filename: "second.jar"},
			},
			want: "first.jar",
		},
		{
			name:  "no files",
			files: nil,
			want:  "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Version{ID: "v1", Files: tt.files}
			got := v.PrimaryFile()
			if tt.want == "" {
				if got != nil {
					t.Errorf("PrimaryFile() = %+v, want nil", got)
				}
				return
			}
			if got == nil || got.Filename != tt.want {
				t.Errorf("PrimaryFile() = %+v, want %q", got, tt.want)
			}
		})
	}
}

func TestProjectIDResolvesEitherField(t *testing.T) {
	tests := []struct {
		name    string
		project Project
		want    string
	}{
		{"detail endpoint id", Project{ID: "AANobbMI"}, "AANobbMI"},
		{"search hit id", Project{HitID: "AANobbMI"}, "AANobbMI"},
		{"detail id wins over hit id", Project{ID: "detail", HitID: "hit"}, "detail"},
		{"neither set", Project{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.project.ProjectID(); got != tt.want {
				t.Errorf("ProjectID() = %q, want %q", got, tt.want)
			}
		})
	}
}
