package moradias

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"carona-service/pkg/validation"
)

var (
	ErrNotFound = errors.New("moradia not found")
	ErrNotOwner = errors.New("moradia belongs to another user")
)

// Service contains housing-listing business logic.
type Service struct {
	db *pgxpool.Pool
}

// NewService creates a moradia service.
func NewService(db *pgxpool.Pool) *Service {
	return &Service{db: db}
}

// List returns listings newest first with the owner's name.
func (s *Service) List(ctx context.Context) ([]Moradia, error) {
	rows, err := s.db.Query(ctx, `
		SELECT m.id, m.user_id, u.name, m.titulo, m.descricao, m.fotos,
		       m.quartos, m.banheiros, m.vagas, m.valor, m.created_at
		  FROM moradias m
		  JOIN users u ON u.id = m.user_id
		 ORDER BY m.created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []Moradia
	for rows.Next() {
		var m Moradia
		if err := rows.Scan(&m.ID, &m.UserID, &m.OwnerName, &m.Titulo, &m.Descricao,
			&m.Fotos, &m.Quartos, &m.Banheiros, &m.Vagas, &m.Valor, &m.CreatedAt); err != nil {
			return nil, err
		}
		if m.Fotos == nil {
			m.Fotos = []string{}
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

// GetByID fetches a single listing.
func (s *Service) GetByID(ctx context.Context, id string) (*Moradia, error) {
	var m Moradia
	err := s.db.QueryRow(ctx, `
		SELECT m.id, m.user_id, u.name, m.titulo, m.descricao, m.fotos,
		       m.quartos, m.banheiros, m.vagas, m.valor, m.created_at
		  FROM moradias m
		  JOIN users u ON u.id = m.user_id
		 WHERE m.id = $1`, id).
		Scan(&m.ID, &m.UserID, &m.OwnerName, &m.Titulo, &m.Descricao,
			&m.Fotos, &m.Quartos, &m.Banheiros, &m.Vagas, &m.Valor, &m.CreatedAt)
	if err != nil {
		return nil, ErrNotFound
	}
	if m.Fotos == nil {
		m.Fotos = []string{}
	}
	return &m, nil
}

// Create inserts a new listing owned by the caller.
func (s *Service) Create(ctx context.Context, ownerID string, req CreateRequest) (*Moradia, error) {
	if !validation.ValidateTitle(req.Titulo) {
		return nil, errors.New("invalid titulo")
	}
	if !validation.ValidateCount(req.Quartos) || !validation.ValidateCount(req.Banheiros) ||
		!validation.ValidateCount(req.Vagas) {
		return nil, errors.New("quartos, banheiros and vagas must be non-negative")
	}
	if !validation.ValidatePrice(req.Valor) {
		return nil, errors.New("invalid valor")
	}

	id := uuid.New().String()
	var m Moradia
	err := s.db.QueryRow(ctx, `
		INSERT INTO moradias (id,user_id,titulo,descricao,quartos,banheiros,vagas,valor)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING id,user_id,titulo,descricao,fotos,quartos,banheiros,vagas,valor,created_at`,
		id, ownerID, req.Titulo, req.Descricao, req.Quartos, req.Banheiros, req.Vagas, req.Valor).
		Scan(&m.ID, &m.UserID, &m.Titulo, &m.Descricao, &m.Fotos,
			&m.Quartos, &m.Banheiros, &m.Vagas, &m.Valor, &m.CreatedAt)
	if err != nil {
		return nil, err
	}
	if m.Fotos == nil {
		m.Fotos = []string{}
	}
	return &m, nil
}

// AppendFoto attaches an uploaded photo URL to the listing; only the owner
// may do it.
func (s *Service) AppendFoto(ctx context.Context, id, callerID, url string) error {
	var ownerID string
	if err := s.db.QueryRow(ctx, `SELECT user_id FROM moradias WHERE id=$1`, id).Scan(&ownerID); err != nil {
		return ErrNotFound
	}
	if ownerID != callerID {
		return ErrNotOwner
	}
	_, err := s.db.Exec(ctx,
		`UPDATE moradias SET fotos = array_append(fotos, $2) WHERE id=$1`, id, url)
	return err
}
