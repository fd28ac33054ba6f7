package component

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wilsonsilva/rom/errors"
	"github.com/wilsonsilva/rom/gateway"
)

// viewRelation exposes by_name and active views returning narrowed
// relations, and count returning a plain value
type viewRelation struct {
	scope string
}

func (r viewRelation) TypeName() string { return "Users" }

func (r viewRelation) Construct(_ *gateway.Gateway, _ Schema) (Relation, error) {
	return r, nil
}

func (r viewRelation) ViewMethods() []string { return []string{"by_name", "active", "count"} }

func (r viewRelation) View(name string, args ...any) (any, error) {
	switch name {
	case "by_name":
		return viewRelation{scope: fmt.Sprintf("name=%v", args[0])}, nil
	case "active":
		return viewRelation{scope: "active"}, nil
	case "count":
		return 42, nil
	default:
		return nil, fmt.Errorf("view %q: %w", name, errors.ErrUnknownView)
	}
}

// restrictableCommand declares itself restrictable
type restrictableCommand struct {
	rel Relation
}

func (c restrictableCommand) TypeName() string { return "CreateUser" }

func (c restrictableCommand) Restrictable() bool { return true }

func (c restrictableCommand) Construct(rel Relation) (Command, error) {
	return restrictableCommand{rel: rel}, nil
}

// inertCommand does not declare itself restrictable
type inertCommand struct{}

func (c inertCommand) TypeName() string { return "DeleteUser" }

func (c inertCommand) Construct(Relation) (Command, error) { return c, nil }

func TestRestrictWrapsOnlyRestrictableCommands(t *testing.T) {
	rel := viewRelation{}

	wrapped := Restrict(restrictableCommand{rel: rel}, rel)
	_, ok := wrapped.(*RestrictedCommand)
	assert.True(t, ok)

	plain := Restrict(inertCommand{}, rel)
	_, ok = plain.(*RestrictedCommand)
	assert.False(t, ok)
}

func TestRestrictIsIdempotent(t *testing.T) {
	rel := viewRelation{}
	once := Restrict(restrictableCommand{rel: rel}, rel)
	twice := Restrict(once, rel)

	assert.Same(t, once, twice)
}

func TestViewReturningRelationYieldsNewCommand(t *testing.T) {
	rel := viewRelation{}
	cmd := Restrict(restrictableCommand{rel: rel}, rel).(*RestrictedCommand)

	result, err := cmd.View("by_name", "Jane")
	require.NoError(t, err)

	narrowed, ok := result.(*RestrictedCommand)
	require.True(t, ok, "view returning a relation must yield a command")
	assert.Equal(t, "CreateUser", narrowed.TypeName())
	assert.Equal(t, "name=Jane", narrowed.Target().(viewRelation).scope)

	// Narrowed commands restrict further.
	again, err := narrowed.View("active")
	require.NoError(t, err)
	assert.Equal(t, "active", again.(*RestrictedCommand).Target().(viewRelation).scope)
}

func TestViewReturningPlainValuePassesThrough(t *testing.T) {
	rel := viewRelation{}
	cmd := Restrict(restrictableCommand{rel: rel}, rel).(*RestrictedCommand)

	result, err := cmd.View("count")
	require.NoError(t, err)
	assert.Equal(t, 42, result)
}

func TestUnknownViewFails(t *testing.T) {
	rel := viewRelation{}
	cmd := Restrict(restrictableCommand{rel: rel}, rel).(*RestrictedCommand)

	_, err := cmd.View("nonexistent")
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
	assert.True(t, errors.Is(err, errors.ErrUnknownView))
}

func TestViewsListsForwardedMethods(t *testing.T) {
	rel := viewRelation{}
	cmd := Restrict(restrictableCommand{rel: rel}, rel).(*RestrictedCommand)

	assert.ElementsMatch(t, []string{"by_name", "active", "count"}, cmd.Views())
}
