package db_test

import (
	"testing"

	"github.com/mergekv/mergekv/pkg/db"
	"github.com/mergekv/mergekv/pkg/utils"
	"github.com/stretchr/testify/require"
)

func TestMemDB(t *testing.T) {
	// create a new memory db
	db := db.NewMemoryDB()

	// get noexist key
	val, err := db.Get([]byte("key"))
	require.ErrorAs(t, err, &utils.ErrNotFound)
	require.Nil(t, val)

	// put
	err = db.Put([]byte("key"), []byte("value"))
	require.NoError(t, err)

	val, err = db.Get([]byte("key"))
	require.NoError(t, err)
	require.Equal(t, val, []byte("value"))

	has, err := db.Has([]byte("key"))
	require.NoError(t, err)
	require.True(t, has)

	// delete
	err = db.Delete([]byte("key"))
	require.NoError(t, err)

	val, err = db.Get([]byte("key"))
	require.ErrorAs(t, err, &utils.ErrNotFound)
	require.Nil(t, val)
}

func TestMemDBIterator(t *testing.T) {
	mdb := db.NewMemoryDB()

	keys := []string{"a/3", "a/1", "b/2", "a/2", "c/1"}
	for _, k := range keys {
		require.NoError(t, mdb.Put([]byte(k), []byte(k)))
	}
	require.Equal(t, 5, mdb.Len())

	// prefix iteration comes back in key order
	iter := mdb.NewIterator([]byte("a/"), nil)
	defer iter.Release()
	var got []string
	for iter.Next() {
		got = append(got, string(iter.Key()))
		require.Equal(t, iter.Key(), iter.Value())
	}
	require.NoError(t, iter.Error())
	require.Equal(t, []string{"a/1", "a/2", "a/3"}, got)

	// bounded range
	iter, err := mdb.NewIteratorWithRange([]byte("a/2"), []byte("b/3"))
	require.NoError(t, err)
	defer iter.Release()
	got = nil
	for iter.Next() {
		got = append(got, string(iter.Key()))
	}
	require.Equal(t, []string{"a/2", "a/3", "b/2"}, got)
}
