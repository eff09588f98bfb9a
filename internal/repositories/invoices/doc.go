// Package invoices persists invoice rows in the invoices table.
//
// Two implementations share the Repository interface: PostgresRepository
// ($n placeholders, DATE and NUMERIC columns) and SQLiteRepository
// (? placeholders, dates and amounts stored as text). Both work over a
// dbx.DBTX, so the same code runs against a *sql.DB or inside a *sql.Tx.
//
// Typical usage:
//
//	repo := invoices.NewPostgresRepository(db)
//	id, _ := repo.Insert(ctx, &models.Invoice{Codigo: "CTI-20251101120000", ...})
//	list, _ := repo.GetAll(ctx)
//	_ = repo.DeleteByID(ctx, id)
package invoices
