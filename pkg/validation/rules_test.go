package validation

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/oksasatya/profolio/pkg/apperror"
)

func TestString(t *testing.T) {
	got, err := String("  Alice  ", "Name")
	require.NoError(t, err)
	assert.Equal(t, "Alice", got)

	_, err = String("", "Name")
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.KindValidation))
	assert.Equal(t, "Name must be provided", err.Error())

	_, err = String("   ", "Name")
	assert.EqualError(t, err, "Name cannot be empty or just spaces")
}

func TestObjectID(t *testing.T) {
	id := primitive.NewObjectID()

	got, err := ObjectID(id.Hex(), "Portfolio id")
	require.NoError(t, err)
	assert.Equal(t, id, got)

	got, err = ObjectID(id, "")
	require.NoError(t, err)
	assert.Equal(t, id, got)

	got, err = ObjectID(id[:], "")
	require.NoError(t, err)
	assert.Equal(t, id, got)

	for _, bad := range []any{"not-an-id", "123", 42, primitive.NilObjectID, nil} {
		_, err := ObjectID(bad, "Theme id")
		assert.Truef(t, apperror.Is(err, apperror.KindValidation), "input %v", bad)
	}
}

func TestDate(t *testing.T) {
	cases := []struct {
		in string
		ok bool
	}{
		{"02/29/2024", true},
		{"12/31/1999", true},
		{"02/30/2024", false},
		{"02/29/2023", false},
		{"2024-02-29", false},
		{"13/01/2024", false},
		{"1/5/2024", false},
	}
	for _, tc := range cases {
		got, err := Date(tc.in, "Start date")
		if tc.ok {
			require.NoError(t, err, tc.in)
			assert.Equal(t, tc.in, got)
		} else {
			assert.Error(t, err, tc.in)
		}
	}
}

func TestArray(t *testing.T) {
	_, err := Array[string](nil, "Technologies")
	assert.EqualError(t, err, "Technologies must be provided")

	_, err = Array([]string{}, "Technologies")
	assert.EqualError(t, err, "Technologies cannot be empty")

	got, err := Strings([]string{" Go ", "Mongo"}, "Technologies", "Technology")
	require.NoError(t, err)
	assert.Equal(t, []string{"Go", "Mongo"}, got)

	_, err = Strings([]string{"Go", " "}, "Technologies", "Technology")
	assert.EqualError(t, err, "Technology cannot be empty or just spaces")
}

func TestEmail(t *testing.T) {
	got, err := Email(" a@b.co ", "")
	require.NoError(t, err)
	assert.Equal(t, "a@b.co", got)

	for _, bad := range []string{"a@b", "a b@c.d", "@b.co", "plain"} {
		_, err := Email(bad, "")
		assert.Error(t, err, bad)
	}
}

func TestPassword(t *testing.T) {
	_, err := Password("Abcdef1!", "")
	assert.NoError(t, err)

	for _, bad := range []string{"abcdef1!", "ABCDEF1!", "Abcdefg!", "Abcdefg1", "Ab1!", "Abcdef1!#"} {
		_, err := Password(bad, "")
		assert.Error(t, err, bad)
	}
}

func TestURL(t *testing.T) {
	_, err := URL("https://github.com/acme/widget", "GitHub repo")
	assert.NoError(t, err)

	_, err = URL("github.com/acme", "GitHub repo")
	assert.EqualError(t, err, "GitHub repo must be a valid URL")
}

func TestBool(t *testing.T) {
	yes := true
	got, err := Bool(&yes, "")
	require.NoError(t, err)
	assert.True(t, got)

	_, err = Bool((*bool)(nil), "Single page")
	assert.EqualError(t, err, "Single page must be provided")

	_, err = Bool("true", "Single page")
	assert.EqualError(t, err, "Single page must be a boolean")
}

func TestBindingTags(t *testing.T) {
	v := validator.New()
	register(v)

	assert.NoError(t, v.Var(primitive.NewObjectID().Hex(), "objectid"))
	assert.Error(t, v.Var("zzz", "objectid"))
	assert.NoError(t, v.Var("01/15/2024", "mmddyyyy"))

	err := v.Struct(struct {
		Date string `json:"date" validate:"mmddyyyy"`
	}{Date: "02/31/2024"})
	details := ToDetails(err)
	assert.Equal(t, "must be a valid MM/DD/YYYY date", details["date"])
}
