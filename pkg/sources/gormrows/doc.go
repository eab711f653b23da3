// Package gormrows provides an iterator.Source over the rows of a GORM
// query.
//
// Rows are fetched with LIMIT/OFFSET as the pipeline pulls them, scanned
// into the type parameter and keyed by their offset in the result:
//
//	src, err := gormrows.New[Order](ctx, gormrows.Config{
//		DB:       db.Model(&Order{}).Where("status = ?", "open"),
//		OrderBy:  "id",
//		PageSize: 200,
//	})
//	if err != nil {
//		return err
//	}
//	p := iterator.On(src).Filter(isLate).Map(toReminder)
//
// Offset paging assumes the ordered result does not shift while it is read.
// A failed query ends the sequence; Err (or Pipeline.Err) reports it.
package gormrows
