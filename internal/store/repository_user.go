package store

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-expense-tracker/internal/logger"
	"github.com/MKhiriev/go-expense-tracker/models"
)

// userRepository is the SQL implementation of [UserRepository].
//
// Unique violations on users.email and users.username are translated into
// [ErrEmailAlreadyExists] and [ErrUsernameAlreadyExists]. The application
// layer checks uniqueness first; the constraints close the race between two
// concurrent registrations.
type userRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewUserRepository constructs a [UserRepository] backed by the provided
// database connection and logger.
func NewUserRepository(db *DB, logger *logger.Logger) UserRepository {
	logger.Debug().Msg("creating user repository")
	return &userRepository{
		db:     db,
		logger: logger,
	}
}

// Create persists a new user record and returns it with the generated id.
func (r *userRepository) Create(ctx context.Context, user models.User) (models.User, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildInsertUserQuery(r.db.builder, user)
	if err != nil {
		log.Err(err).Str("func", "*userRepository.Create").Msg("failed to build query")
		return models.User{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	id, err := r.db.insertReturningID(ctx, query, args)
	if err != nil {
		log.Err(err).Str("func", "*userRepository.Create").Str("username", user.Username).Msg("failed to insert user")
		return models.User{}, err
	}

	user.UserID = id
	return user, nil
}

func (r *userRepository) FindByID(ctx context.Context, userID int64) (models.User, error) {
	return r.findOne(ctx, "*userRepository.FindByID", sq.Eq{"id": userID})
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (models.User, error) {
	return r.findOne(ctx, "*userRepository.FindByUsername", sq.Eq{"username": username})
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (models.User, error) {
	return r.findOne(ctx, "*userRepository.FindByEmail", sq.Eq{"email": email})
}

func (r *userRepository) findOne(ctx context.Context, funcName string, where sq.Eq) (models.User, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildSelectUserQuery(r.db.builder, where)
	if err != nil {
		log.Err(err).Str("func", funcName).Msg("failed to build query")
		return models.User{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	user, err := scanUser(r.db.conn(ctx).QueryRowContext(ctx, query, args...))
	if err != nil {
		if isNoRows(err) {
			return models.User{}, ErrNoUserWasFound
		}
		log.Err(err).Str("func", funcName).Msg("failed to select user")
		return models.User{}, fmt.Errorf("%w: %w", ErrExecutingQuery, r.db.translate(err))
	}

	return user, nil
}

// FindAll implements [UserRepository].
func (r *userRepository) FindAll(ctx context.Context, onlyActive bool) ([]models.User, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildSelectAllUsersQuery(r.db.builder, onlyActive)
	if err != nil {
		log.Err(err).Str("func", "*userRepository.FindAll").Msg("failed to build query")
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.conn(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*userRepository.FindAll").Msg("failed to execute query")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, r.db.translate(err))
	}
	defer rows.Close()

	users := make([]models.User, 0)
	for rows.Next() {
		user, scanErr := scanUser(rows)
		if scanErr != nil {
			log.Err(scanErr).Str("func", "*userRepository.FindAll").Msg("failed to scan user row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}
		users = append(users, user)
	}

	if err = rows.Err(); err != nil {
		log.Err(err).Str("func", "*userRepository.FindAll").Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return users, nil
}

// Update implements [UserRepository]. Password columns are never touched.
func (r *userRepository) Update(ctx context.Context, user models.User) error {
	log := logger.FromContext(ctx)

	query, args, err := buildUpdateUserQuery(r.db.builder, user)
	if err != nil {
		log.Err(err).Str("func", "*userRepository.Update").Msg("failed to build query")
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if err = r.db.execAffectingOne(ctx, query, args, ErrNoUserWasFound); err != nil {
		log.Err(err).Str("func", "*userRepository.Update").Int64("user_id", user.UserID).Msg("failed to update user")
		return err
	}

	return nil
}

func scanUser(row rowScanner) (models.User, error) {
	var (
		user        models.User
		accountType int
		token       sql.NullString
		issuedAt    sql.NullTime
	)

	err := row.Scan(
		&user.UserID, &user.Username, &user.Email, &user.PasswordHash, &user.PasswordSalt,
		&user.Name, &user.Surname, &user.Phone, &accountType, &user.Active, &user.RegisteredAt,
		&token, &issuedAt,
	)
	if err != nil {
		return models.User{}, err
	}

	user.AccountType = models.AccountType(accountType)
	user.RegisteredAt = user.RegisteredAt.UTC()
	user.ConfirmationToken = token.String
	if issuedAt.Valid {
		t := issuedAt.Time.UTC()
		user.ConfirmationTokenIssuedAt = &t
	}

	return user, nil
}
