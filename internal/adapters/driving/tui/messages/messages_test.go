package messages

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestViewType_String(t *testing.T) {
	assert.Equal(t, "collections", ViewCollections.String())
	assert.Equal(t, "items", ViewItems.String())
	assert.Equal(t, "item", ViewItem.String())
	assert.Equal(t, "unknown", ViewType(42).String())
}
