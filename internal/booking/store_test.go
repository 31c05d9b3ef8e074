package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorePutGet(t *testing.T) {
	st := NewStore(time.Minute)
	s := NewSession("", 7, 100, 9, []Passenger{{Name: "A", Passport: "P1"}}, testSeats())

	id := st.Put(s)
	require.NotEmpty(t, id)
	assert.Equal(t, id, s.ID)

	got, err := st.Get(id, 7)
	require.NoError(t, err)
	assert.Same(t, s, got)
}

func TestStoreGetWrongUser(t *testing.T) {
	st := NewStore(time.Minute)
	id := st.Put(NewSession("", 7, 100, 9, []Passenger{{Name: "A", Passport: "P1"}}, testSeats()))

	_, err := st.Get(id, 8)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestStoreGetUnknownID(t *testing.T) {
	st := NewStore(time.Minute)
	_, err := st.Get("nope", 7)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestStoreExpiry(t *testing.T) {
	st := NewStore(10 * time.Millisecond)
	id := st.Put(NewSession("", 7, 100, 9, []Passenger{{Name: "A", Passport: "P1"}}, testSeats()))

	time.Sleep(25 * time.Millisecond)
	_, err := st.Get(id, 7)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestStoreDelete(t *testing.T) {
	st := NewStore(time.Minute)
	id := st.Put(NewSession("", 7, 100, 9, []Passenger{{Name: "A", Passport: "P1"}}, testSeats()))

	st.Delete(id)
	_, err := st.Get(id, 7)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
