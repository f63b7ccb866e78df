package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"strings"

	"github.com/fizipop/uni-ai-app/internal/models"

	"golang.org/x/crypto/bcrypt"
	"modernc.org/sqlite"
)

var (
	ErrInvalidInput       = errors.New("username and password cannot be empty")
	ErrUsernameExists     = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
)

// ProfileUpdate carries a partial profile. Nil fields are left unchanged.
type ProfileUpdate struct {
	Percentage       *float64
	Interest         *string
	Extracurriculars *[]models.Extracurricular
	ExtraInfo        *string
}

// CreateUser hashes the password with bcrypt and inserts the new row.
// The insert is the durable write: a constraint or IO failure means the
// user was not created.
func (s *Store) CreateUser(username, password string) (models.User, error) {
	if strings.TrimSpace(username) == "" || strings.TrimSpace(password) == "" {
		return models.User{}, ErrInvalidInput
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stmt, err := s.db.Prepare("INSERT INTO users(username, password_hash) VALUES(?, ?)")
	if err != nil {
		return models.User{}, err
	}
	defer stmt.Close()

	if _, err := stmt.Exec(username, string(hash)); err != nil {
		var sqliteErr *sqlite.Error
		if errors.As(err, &sqliteErr) {
			if sqliteErr.Code() == 2067 { // UNIQUE constraint violation
				return models.User{}, ErrUsernameExists
			}
		}
		return models.User{}, err
	}

	return models.User{
		Username:     username,
		PasswordHash: string(hash),
		Profile:      models.Profile{Extracurriculars: []models.Extracurricular{}},
	}, nil
}

// VerifyUser checks the password against the stored hash. An unknown
// username and a wrong password return the same error so callers cannot
// probe which usernames exist.
func (s *Store) VerifyUser(username, password string) (models.User, error) {
	user, err := s.GetUserByUsername(username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return models.User{}, ErrInvalidCredentials
		}
		return models.User{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return models.User{}, ErrInvalidCredentials
	}
	return user, nil
}

func (s *Store) GetUserByUsername(username string) (models.User, error) {
	var user models.User

	row := s.db.QueryRow(
		"SELECT username, password_hash, percentage, interest, extracurriculars, extra_info FROM users WHERE username = ?",
		username,
	)

	var nullPercentage sql.NullFloat64
	var nullInterest sql.NullString
	var ecsJSON string

	if err := row.Scan(
		&user.Username,
		&user.PasswordHash,
		&nullPercentage,
		&nullInterest,
		&ecsJSON,
		&user.Profile.ExtraInfo,
	); err != nil {
		if err == sql.ErrNoRows {
			return user, ErrUserNotFound
		}
		return user, err
	}

	if nullPercentage.Valid {
		p := nullPercentage.Float64
		user.Profile.Percentage = &p
	}
	if nullInterest.Valid {
		user.Profile.Interest = nullInterest.String
	}

	user.Profile.Extracurriculars = []models.Extracurricular{}
	if ecsJSON != "" {
		if err := json.Unmarshal([]byte(ecsJSON), &user.Profile.Extracurriculars); err != nil {
			return user, err
		}
	}
	return user, nil
}

// UpdateProfile applies only the non-nil fields as a single UPDATE, so a
// partial update never clears what it does not mention. Returns the
// profile as stored after the write.
func (s *Store) UpdateProfile(username string, upd ProfileUpdate) (models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sets := make([]string, 0, 4)
	args := make([]any, 0, 5)

	if upd.Percentage != nil {
		sets = append(sets, "percentage = ?")
		args = append(args, *upd.Percentage)
	}
	if upd.Interest != nil {
		sets = append(sets, "interest = ?")
		args = append(args, *upd.Interest)
	}
	if upd.Extracurriculars != nil {
		ecsJSON, err := json.Marshal(*upd.Extracurriculars)
		if err != nil {
			return models.Profile{}, err
		}
		sets = append(sets, "extracurriculars = ?")
		args = append(args, string(ecsJSON))
	}
	if upd.ExtraInfo != nil {
		sets = append(sets, "extra_info = ?")
		args = append(args, *upd.ExtraInfo)
	}

	if len(sets) > 0 {
		args = append(args, username)
		res, err := s.db.Exec("UPDATE users SET "+strings.Join(sets, ", ")+" WHERE username = ?", args...)
		if err != nil {
			return models.Profile{}, err
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return models.Profile{}, err
		}
		if affected == 0 {
			return models.Profile{}, ErrUserNotFound
		}
	}

	user, err := s.GetUserByUsername(username)
	if err != nil {
		return models.Profile{}, err
	}
	return user.Profile, nil
}
