package repository_test

import (
	"testing"

	"hotel/internal/domains/user/repository"

	"github.com/stretchr/testify/assert"
)

func TestLoginFilter(t *testing.T) {
	where, args := repository.LoginFilter("FrontDesk@Hotel.Test").GetWhereClause()

	assert.Equal(t, "(users.username = :login_username OR users.email = :login_email)", where)
	assert.Equal(t, "FrontDesk@Hotel.Test", args["login_username"])
	assert.Equal(t, "frontdesk@hotel.test", args["login_email"])
}
