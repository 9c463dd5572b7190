package clipboard

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMock(t *testing.T) {
	var c Clipboard = &Mock{}
	require.NoError(t, c.Copy("wso2/pet-be:1.0.0"))
	require.Equal(t, []string{"wso2/pet-be:1.0.0"}, c.(*Mock).Copied)

	failing := &Mock{Err: errors.New("no clipboard")}
	require.Error(t, failing.Copy("x"))
	require.Empty(t, failing.Copied)
}
