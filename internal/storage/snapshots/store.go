// internal/storage/snapshots/store.go
package snapshots

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/AvantikaTIC/depuracionContable/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store persiste los snapshots versionados de datos depurados. A lo sumo
// un snapshot por categoría está activo; guardar uno nuevo desactiva los
// anteriores dentro de la misma transacción.
type Store interface {
	DeactivateActive(ctx context.Context, categoria domain.Categoria) (int64, error)
	Save(ctx context.Context, categoria domain.Categoria, datos domain.SnapshotPayload) (int64, error)
	GetLatestActive(ctx context.Context, categoria domain.Categoria) (*domain.Snapshot, bool, error)
}

// Tx es el subconjunto de pgx.Tx que usa el store. pgx.Tx lo satisface.
type Tx interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// DB es la conexión que necesita el store. *pgxpool.Pool se adapta con
// NewDB; los tests inyectan una implementación propia.
type DB interface {
	Begin(ctx context.Context) (Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type poolDB struct {
	pool *pgxpool.Pool
}

// NewDB adapta un pool de pgx a la interfaz DB del store.
func NewDB(pool *pgxpool.Pool) DB {
	return poolDB{pool: pool}
}

func (p poolDB) Begin(ctx context.Context) (Tx, error) {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return tx, nil
}

func (p poolDB) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return p.pool.Exec(ctx, sql, args...)
}

func (p poolDB) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return p.pool.QueryRow(ctx, sql, args...)
}

type store struct {
	db DB
}

// NewStore crea el store de snapshots sobre la conexión dada.
func NewStore(db DB) Store {
	return &store{db: db}
}

const (
	sqlDesactivar = `
		UPDATE contabilidad_datos_depuracion
		SET activo = FALSE
		WHERE categoria = $1 AND activo`

	sqlInsertar = `
		INSERT INTO contabilidad_datos_depuracion (categoria, datos, activo)
		VALUES ($1, $2, TRUE)
		RETURNING id`

	sqlUltimoActivo = `
		SELECT id, categoria, datos, activo, creado_en
		FROM contabilidad_datos_depuracion
		WHERE categoria = $1 AND activo
		ORDER BY creado_en DESC
		LIMIT 1`
)

// DeactivateActive marca como inactivos todos los snapshots activos de la
// categoría. Es idempotente: sin activos devuelve 0.
func (s *store) DeactivateActive(ctx context.Context, categoria domain.Categoria) (int64, error) {
	tag, err := s.db.Exec(ctx, sqlDesactivar, int(categoria))
	if err != nil {
		return 0, &domain.PersistenceError{Operacion: "desactivar registros anteriores", Err: err}
	}
	return tag.RowsAffected(), nil
}

// Save desactiva los snapshots activos de la categoría e inserta el nuevo
// como activo, todo en una transacción: o ambos pasos quedan, o ninguno.
// Un lector concurrente nunca observa cero ni dos activos.
func (s *store) Save(ctx context.Context, categoria domain.Categoria, datos domain.SnapshotPayload) (int64, error) {
	cuerpo, err := json.Marshal(datos)
	if err != nil {
		return 0, &domain.PersistenceError{Operacion: "serializar datos procesados", Err: err}
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return 0, &domain.PersistenceError{Operacion: "iniciar transacción", Err: err}
	}
	defer tx.Rollback(ctx) // no-op tras el commit

	if _, err := tx.Exec(ctx, sqlDesactivar, int(categoria)); err != nil {
		return 0, &domain.PersistenceError{Operacion: "desactivar registros anteriores", Err: err}
	}

	var id int64
	if err := tx.QueryRow(ctx, sqlInsertar, int(categoria), cuerpo).Scan(&id); err != nil {
		return 0, &domain.PersistenceError{Operacion: "guardar datos procesados", Err: err}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, &domain.PersistenceError{Operacion: "confirmar transacción", Err: err}
	}
	return id, nil
}

// GetLatestActive devuelve el snapshot activo más reciente de la
// categoría. La ausencia no es un error: (nil, false, nil).
func (s *store) GetLatestActive(ctx context.Context, categoria domain.Categoria) (*domain.Snapshot, bool, error) {
	var (
		snap   domain.Snapshot
		cat    int
		cuerpo []byte
		creado time.Time
	)
	err := s.db.QueryRow(ctx, sqlUltimoActivo, int(categoria)).
		Scan(&snap.ID, &cat, &cuerpo, &snap.Activo, &creado)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, &domain.PersistenceError{Operacion: "obtener últimos datos procesados", Err: err}
	}

	if err := json.Unmarshal(cuerpo, &snap.Datos); err != nil {
		return nil, false, &domain.PersistenceError{Operacion: "leer datos procesados", Err: err}
	}
	snap.Categoria = domain.Categoria(cat)
	snap.CreadoEn = creado
	return &snap, true, nil
}
