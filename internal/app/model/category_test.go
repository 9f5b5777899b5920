package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"/computers", "/computers"},
		{"computers", "/computers"},
		{"/computers/", "/computers"},
		{"/Computers/Laptops", "/computers/laptops"},
		{"  /computers ", "/computers"},
		{"/", "/"},
		{"", "/"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizePath(tt.in), "input %q", tt.in)
	}
}

func TestParentOf(t *testing.T) {
	assert.Equal(t, "/", ParentOf("/computers"))
	assert.Equal(t, "/computers", ParentOf("/computers/laptops"))
	assert.Equal(t, "/computers/laptops", ParentOf("/computers/laptops/gaming"))
	assert.Equal(t, "/", ParentOf("/"))
}

func TestIsDescendantPath(t *testing.T) {
	assert.True(t, IsDescendantPath("/computers", "/"))
	assert.True(t, IsDescendantPath("/computers/laptops", "/computers"))
	assert.True(t, IsDescendantPath("/computers/laptops/gaming", "/computers"))
	assert.False(t, IsDescendantPath("/computers", "/computers"))
	assert.False(t, IsDescendantPath("/computersxyz", "/computers"))
	assert.False(t, IsDescendantPath("/", "/"))
}

func TestCategory_DefaultName(t *testing.T) {
	category := &Category{
		Path:  "/computers",
		Names: LocaleMap{"en": "Computers", "tr": "Bilgisayar"},
	}

	assert.Equal(t, "Bilgisayar", category.DefaultName("tr"))
	assert.Equal(t, "Computers", category.DefaultName("de"))

	noEnglish := &Category{Path: "/x", Names: LocaleMap{"tr": "X"}}
	assert.Equal(t, "X", noEnglish.DefaultName("de"))

	empty := &Category{Path: "/x", Names: LocaleMap{}}
	assert.Equal(t, "/x", empty.DefaultName("en"))
}
