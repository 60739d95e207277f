package repositories_test

import (
	"testing"

	"github.com/yigit/studentrecords/internal/app/repositories"
	"github.com/yigit/studentrecords/internal/app/repositories/repotest"
	"github.com/yigit/studentrecords/internal/db"
	"github.com/yigit/studentrecords/internal/testutil"
)

func TestIntegration_PostgresStudentStore_Contract(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	store := repositories.NewPostgresStudentStore(db.NewFromPool(testDB.Pool))

	repotest.RunStudentStoreContract(t, func(t *testing.T) repositories.StudentStore {
		testDB.CleanTables(t)
		return store
	})
}
