package declare_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/declmig/declmig/internal/declare"
)

func TestSnakeCase(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"User", "user"},
		{"ToDo", "to_do"},
		{"HTTPServer", "h_t_t_p_server"},
		{"already_snake", "already_snake"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, declare.SnakeCase(tt.in))
		})
	}
}

func TestTableName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "users", declare.TableName("User"))
	assert.Equal(t, "to_dos", declare.TableName("ToDo"))
	assert.Equal(t, "projects", declare.TableName("Project"))
}

func TestEnumName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "role_type", declare.EnumName("RoleType"))
}

func TestJoinTableName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "users_projects_join", declare.JoinTableName("users", "projects"))
}
