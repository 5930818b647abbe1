package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/dfcamargo/trastienda-api/internal/domain"
)

func TestIsLockTimeout_Detecta55P03(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "55P03", Message: "canceling statement due to lock timeout"}

	assert.True(t, isLockTimeout(pgErr))
	assert.True(t, isLockTimeout(fmt.Errorf("lock stock record: %w", pgErr)),
		"el código debe detectarse aunque el repositorio envuelva el error")
	assert.False(t, isLockTimeout(errors.New("connection refused")))
	assert.False(t, isLockTimeout(&pgconn.PgError{Code: "23505"}))
}

func TestIsUniqueViolation_Detecta23505(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", Message: "duplicate key value"}

	assert.True(t, isUniqueViolation(pgErr))
	assert.True(t, isUniqueViolation(fmt.Errorf("insert movement: %w", pgErr)))
	assert.False(t, isUniqueViolation(errors.New("otra cosa")))
}

// Un 55P03 dentro de la transacción debe salir del runner como ErrLockTimeout,
// que es reintentable; cualquier otro error pasa sin traducir.
func TestMapTxError_TraduceLockTimeout(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "55P03"}
	err := mapTxError(fmt.Errorf("lock stock record: %w", pgErr))
	assert.ErrorIs(t, err, domain.ErrLockTimeout)

	boom := errors.New("boom")
	mapped := mapTxError(boom)
	assert.NotErrorIs(t, mapped, domain.ErrLockTimeout)
	assert.Equal(t, boom, mapped)
}
