package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/juiceai/juice-server/internal/domain"
)

// Driver-failure paths are exercised with sqlmock so we can inject
// errors the real engine would only produce under disk pressure.

func TestContactGetAllQueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM contacts").WillReturnError(errors.New("disk I/O error"))

	if _, err := NewContactRepo(db).GetAll(context.Background()); err == nil {
		t.Error("GetAll should surface the driver error")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestContactAddBatchRollsBackOnFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO contacts").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO contacts").WillReturnError(errors.New("constraint failed"))
	mock.ExpectRollback()

	_, err = NewContactRepo(db).AddBatch(context.Background(), []domain.Contact{
		{Type: domain.ContactEmail, Value: "ok@example.com"},
		{Type: domain.ContactEmail, Value: "bad@example.com"},
	})
	if err == nil {
		t.Fatal("AddBatch should fail when any insert fails")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestContactUpdateExecError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("UPDATE contacts").WillReturnError(errors.New("database is locked"))

	if _, err := NewContactRepo(db).Update(context.Background(), &domain.Contact{ID: 1, Value: "x"}); err == nil {
		t.Error("Update should surface the driver error")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}
