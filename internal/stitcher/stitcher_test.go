package stitcher

import "testing"

func TestBasenameWithoutExt(t *testing.T) {
	cases := map[string]string{
		"https://storage.googleapis.com/bucket/screenshots/1-cam-26-03-05--14--30--07.jpg": "1-cam-26-03-05--14--30--07",
		"https://storage.googleapis.com/bucket/grids/grid.png":                              "grid",
		"plain-name.jpeg":                                                                   "plain-name",
		"no-extension":                                                                      "no-extension",
	}
	for in, want := range cases {
		if got := basenameWithoutExt(in); got != want {
			t.Errorf("basenameWithoutExt(%q) = %q, want %q", in, got, want)
		}
	}
}
