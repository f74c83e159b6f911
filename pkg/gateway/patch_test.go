package gateway

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type Stamp struct {
	ID        int64     `json:"id"`
	CreatedAt time.Time `json:"created_at"`
}

type item struct {
	Stamp
	Title    string   `json:"title"`
	Tags     []string `json:"tags,omitempty"`
	Secret   string   `json:"-"`
	Joined   *item    `gorm:"-" json:"joined,omitempty"`
	internal int
}

func TestPatchOf(t *testing.T) {
	row := &item{Stamp: Stamp{ID: 3}, Title: "Logo design", Tags: []string{"brand"}, Secret: "x", internal: 1}

	p := PatchOf(row, "id", "created_at")
	assert.Equal(t, Patch{"title": "Logo design", "tags": []string{"brand"}}, p)

	full := PatchOf(*row)
	assert.Contains(t, full, "id")
	assert.Contains(t, full, "created_at")
	assert.NotContains(t, full, "joined")

	assert.Empty(t, PatchOf((*item)(nil)))
	assert.Empty(t, PatchOf(42))
}
