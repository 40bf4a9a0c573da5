// internal/core/auth/service.go
package auth

import (
	"context"
	"errors"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"google.golang.org/api/iterator"
)

type Service interface {
	Login(ctx context.Context, usuario, clave string) (string, error)
}

type service struct {
	db        *firestore.Client
	jwtSecret []byte
}

// NewService crea el servicio de autenticación. El secreto JWT se inyecta
// desde la configuración, no del entorno.
func NewService(db *firestore.Client, jwtSecret []byte) Service {
	return &service{db: db, jwtSecret: jwtSecret}
}

// Usuario representa la estructura de un usuario en Firestore.
type Usuario struct {
	Username     string   `firestore:"username"`
	PasswordHash string   `firestore:"passwordHash"`
	Roles        []string `firestore:"roles"`
}

func (s *service) Login(ctx context.Context, usuario, clave string) (string, error) {
	consulta := s.db.Collection("users").Where("username", "==", usuario).Limit(1).Documents(ctx)
	defer consulta.Stop()

	doc, err := consulta.Next()
	if err == iterator.Done {
		return "", errors.New("usuario o contraseña inválidos")
	}
	if err != nil {
		return "", errors.New("error al consultar la base de datos")
	}

	var u Usuario
	if err := doc.DataTo(&u); err != nil {
		return "", errors.New("error al leer datos del usuario")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(clave)); err != nil {
		return "", errors.New("usuario o contraseña inválidos")
	}

	claims := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"username": u.Username,
		"roles":    u.Roles,
		"exp":      time.Now().Add(24 * time.Hour).Unix(),
	})

	token, err := claims.SignedString(s.jwtSecret)
	if err != nil {
		return "", errors.New("error al generar token de acceso")
	}
	return token, nil
}
