package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
)

func TestCreateFirstAdmin(t *testing.T) {
	insert := `INSERT INTO admin_users \(username, password_hash\)\s+SELECT \?, \? FROM DUAL\s+WHERE NOT EXISTS \(SELECT 1 FROM admin_users\)`
	cases := []struct {
		name   string
		expect func(sqlmock.Sqlmock)
		wantID uint64
		want   error
	}{
		{"empty table", func(m sqlmock.Sqlmock) {
			m.ExpectExec(insert).WithArgs("owner", sqlmock.AnyArg()).WillReturnResult(sqlmock.NewResult(1, 1))
		}, 1, nil},
		{"admin already there", func(m sqlmock.Sqlmock) {
			m.ExpectExec(insert).WillReturnResult(sqlmock.NewResult(0, 0))
		}, 0, ErrAdminExists},
		{"lost the race", func(m sqlmock.Sqlmock) {
			m.ExpectExec(insert).WillReturnError(&mysql.MySQLError{Number: 1213, Message: "Deadlock found when trying to get lock"})
		}, 0, ErrAdminExists},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			if err != nil {
				t.Fatal(err)
			}
			defer db.Close()
			tc.expect(mock)

			id, err := NewAdminRepo(db).CreateFirstAdmin(context.Background(), " Owner ", "long-enough-pw", 4)
			if !errors.Is(err, tc.want) || id != tc.wantID {
				t.Fatalf("id=%d err=%v, want id=%d err=%v", id, err, tc.wantID, tc.want)
			}
			if err := mock.ExpectationsWereMet(); err != nil {
				t.Fatal(err)
			}
		})
	}
}
