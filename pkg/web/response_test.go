package web

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
)

func TestError(t *testing.T) {
	res := Error("AccountNotFound", errors.New("account not found"))

	require.Equal(t, Response{Error: "account not found", Kind: "AccountNotFound"}, res)
}

func TestGetErrorMsg(t *testing.T) {
	type request struct {
		Number  string `validate:"required"`
		PageID  int    `validate:"min=1"`
		Balance string `validate:"oneof=a b"`
	}

	err := validator.New().Struct(request{PageID: 0, Balance: "c"})

	var ve validator.ValidationErrors
	require.ErrorAs(t, err, &ve)
	require.Len(t, ve, 3)

	require.Equal(t, "Number field is required", ve[0].Field()+GetErrorMsg(ve[0]))
	require.Equal(t, "PageID must be at least 1", ve[1].Field()+GetErrorMsg(ve[1]))
	require.Equal(t, "Balance must be one of a b", ve[2].Field()+GetErrorMsg(ve[2]))
}
