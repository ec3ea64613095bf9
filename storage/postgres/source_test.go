package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/poiesic/concierge/core"
	"github.com/poiesic/concierge/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var columns = []string{"id", "name", "category", "description", "profile", "location", "contact",
	"benefits", "faq", "sponsored", "price", "languages"}

func setupMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func TestSource_FetchCategory(t *testing.T) {
	db, mock := setupMockDB(t)
	mock.ExpectQuery(`SELECT (.+) FROM advertisers WHERE category = \$1`).
		WithArgs("Accommodation").
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(11, "Hotel Condal", "Accommodation", "Hotel boutique", nil, "Born", "info@condal.es",
				"{Desayuno,Wifi}", []byte(`[{"q":"¿Check-in?","a":"14:00"}]`), true, "€120", nil).
			AddRow(0, "Hostal Sol", "Accommodation", nil, nil, nil, nil, nil, nil, nil, nil, nil))

	src, err := NewSource(db, nil)
	require.NoError(t, err)

	records, err := src.FetchCategory(context.Background(), core.CategoryAccommodation)
	require.NoError(t, err)
	require.Len(t, records, 2)

	hotel := records[0]
	assert.Equal(t, core.ID(11), hotel.ID)
	assert.Equal(t, "Hotel Condal", hotel.Name)
	assert.Equal(t, []string{"Desayuno", "Wifi"}, hotel.Benefits)
	assert.Equal(t, "14:00", hotel.FAQ[0].Answer)
	assert.True(t, hotel.Sponsored)
	assert.Empty(t, hotel.Profile)

	assert.Equal(t, core.RecordID(core.CategoryAccommodation, "Hostal Sol"), records[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSource_FetchAll(t *testing.T) {
	db, mock := setupMockDB(t)
	mock.ExpectQuery(`SELECT (.+) FROM advertisers ORDER BY category`).
		WillReturnRows(sqlmock.NewRows(columns))

	src, err := NewSource(db, nil)
	require.NoError(t, err)

	records, err := src.FetchAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSource_QueryError(t *testing.T) {
	db, mock := setupMockDB(t)
	mock.ExpectQuery(`SELECT (.+) FROM advertisers`).WillReturnError(errors.New("connection reset"))

	src, err := NewSource(db, nil)
	require.NoError(t, err)

	_, err = src.FetchAll(context.Background())
	assert.ErrorIs(t, err, storage.ErrSourceUnavailable)
}

func TestSource_BadFAQ(t *testing.T) {
	db, mock := setupMockDB(t)
	mock.ExpectQuery(`SELECT (.+) FROM advertisers`).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(1, "X", "Retail", nil, nil, nil, nil, nil, []byte(`{broken`), false, nil, nil))

	src, err := NewSource(db, nil)
	require.NoError(t, err)

	_, err = src.FetchAll(context.Background())
	assert.ErrorIs(t, err, storage.ErrSourceUnavailable)
}

func TestNewSource_NilDB(t *testing.T) {
	_, err := NewSource(nil, nil)
	assert.Error(t, err)
}
