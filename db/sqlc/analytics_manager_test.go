package sqlc

import (
	"context"
	"net"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/sqlc-dev/pqtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyticsManager(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	serverIp := pqtype.Inet{IPNet: net.IPNet{IP: net.IPv4(192, 168, 1, 10).To4(), Mask: net.CIDRMask(32, 32)}, Valid: true}
	am := NewDbManager(New(db)).Analytics

	mock.ExpectExec(regexp.QuoteMeta(incrementGamesCreatedCount)).
		WithArgs(serverIp).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT games_created FROM game_server_analytics WHERE server_ip = \$1`).
		WithArgs(serverIp).
		WillReturnRows(sqlmock.NewRows([]string{"games_created"}).AddRow(1))
	mock.ExpectExec(regexp.QuoteMeta(incrementGamesFinishedCount)).
		WithArgs(serverIp).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT games_finished FROM game_server_analytics WHERE server_ip = \$1`).
		WithArgs(serverIp).
		WillReturnRows(sqlmock.NewRows([]string{"games_finished"}).AddRow(1))

	require.NoError(t, am.IncrementGamesCreatedCount(ctx, serverIp))
	created, err := am.GetGamesCreatedCount(ctx, serverIp)
	require.NoError(t, err)
	assert.EqualValues(t, 1, created)

	require.NoError(t, am.IncrementGamesFinishedCount(ctx, serverIp))
	finished, err := am.GetGamesFinishedCount(ctx, serverIp)
	require.NoError(t, err)
	assert.EqualValues(t, 1, finished)

	require.NoError(t, mock.ExpectationsWereMet())
}
