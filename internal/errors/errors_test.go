package errors_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/conquest-editor/internal/errors"
)

type ErrorsTestSuite struct {
	suite.Suite
}

func TestErrorsSuite(t *testing.T) {
	suite.Run(t, new(ErrorsTestSuite))
}

type testSize struct{ x, y int }

func (s testSize) String() string { return fmt.Sprintf("[%d %d]", s.x, s.y) }

func (s *ErrorsTestSuite) TestNewError() {
	testCases := []struct {
		name     string
		code     errors.Code
		message  string
		expected string
	}{
		{
			name:     "not found error",
			code:     errors.CodeNotFound,
			message:  "breed not found",
			expected: "NOT_FOUND: breed not found",
		},
		{
			name:     "data loss error",
			code:     errors.CodeDataLoss,
			message:  "grid overlap",
			expected: "DATA_LOSS: grid overlap",
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			err := errors.New(tc.code, tc.message)
			s.Assert().Equal(tc.expected, err.Error())
			s.Assert().Equal(tc.code, err.Code)
			s.Assert().Equal(tc.message, err.Message)
		})
	}
}

func (s *ErrorsTestSuite) TestWrapPreservesCode() {
	original := errors.NotFound("item not found").WithEntity("0x10")
	wrapped := errors.Wrap(original, "failed to refill")

	s.Equal(errors.CodeNotFound, wrapped.Code)
	s.Equal("0x10", wrapped.Meta[errors.MetaEntityID])
	s.True(errors.Is(wrapped, errors.NotFound("")))
}

func (s *ErrorsTestSuite) TestWrapPlainError() {
	wrapped := errors.Wrap(fmt.Errorf("disk full"), "failed to write save")
	s.Equal(errors.CodeInternal, wrapped.Code)
	s.Equal("INTERNAL: failed to write save: disk full", wrapped.Error())
}

func (s *ErrorsTestSuite) TestWrapWithCodeCopiesMeta() {
	original := errors.NotFound("x").WithMeta(errors.MetaPath, "set/stuff")
	wrapped := errors.WrapWithCode(original, errors.CodeFailedPrecondition, "missing assets")

	s.Equal(errors.CodeFailedPrecondition, wrapped.Code)
	s.Equal("set/stuff", wrapped.Meta[errors.MetaPath])
}

func (s *ErrorsTestSuite) TestWrapNil() {
	s.Nil(errors.Wrap(nil, "noop"))
	s.Nil(errors.WrapWithCode(nil, errors.CodeInternal, "noop"))
}

func (s *ErrorsTestSuite) TestItemDoesNotFit() {
	err := errors.ItemDoesNotFit("mp40.ammo", testSize{2, 1}, "0x8a3f")

	s.True(errors.IsResourceExhausted(err))
	s.Equal("mp40.ammo", errors.GetMeta(err)[errors.MetaItem])
	s.Equal("[2 1]", errors.GetMeta(err)[errors.MetaSize])
	s.Equal("0x8a3f", errors.GetMeta(err)[errors.MetaEntityID])
	s.Contains(err.Error(), "doesn't fit in inventory of 0x8a3f")
}

func (s *ErrorsTestSuite) TestInsufficientFunds() {
	err := errors.InsufficientFunds("AP", 7.5, 3)
	s.True(errors.IsFailedPrecondition(err))
	s.Equal("not enough AP: need 7.5, have 3.0", errors.GetMessage(err))
}

func (s *ErrorsTestSuite) TestIsFatal() {
	s.False(errors.IsFatal(nil))
	s.False(errors.IsFatal(errors.NotFound("miss")))
	s.False(errors.IsFatal(errors.DataLoss("overlap")))
	s.True(errors.IsFatal(errors.FailedPrecondition("no data dir")))
	s.True(errors.IsFatal(fmt.Errorf("plain")))
}

func (s *ErrorsTestSuite) TestGetCode() {
	s.Equal(errors.CodeOK, errors.GetCode(nil))
	s.Equal(errors.CodeDataLoss, errors.GetCode(errors.DataLossf("cell %d", 1)))
	s.Equal(errors.CodeInternal, errors.GetCode(fmt.Errorf("plain")))
}

func (s *ErrorsTestSuite) TestGetMessage() {
	s.Equal("", errors.GetMessage(nil))
	s.Equal("plain", errors.GetMessage(fmt.Errorf("plain")))
	s.Equal("missing", errors.GetMessage(errors.NotFound("missing")))
}
