// Package store provides the DynamoDB record adapter for the employee table.
//
// The adapter exposes four operations against a single-key table:
//
//   - [Store.Fetch] reads one record; an absent key is reported through the
//     found flag, not as an error
//   - [Store.List] scans the whole table, following scan pages internally
//   - [Store.Put] writes a record unconditionally
//   - [Store.Update] applies an update expression, optionally guarded by an
//     existence precondition
//
// # Update Expressions
//
// Partial updates are built with [SetFields], [SetField] and [RemoveField].
// Every attribute name and value goes through expression placeholders
// (#0, :0, ...), so reserved words such as "name" or "status" never appear in
// the update text and values are never concatenated into it:
//
//	update, err := store.SetFields(map[string]any{"name": "Ada", "status": 1})
//	if err != nil {
//	    return err
//	}
//	item, err := s.Update(ctx, "1001", update, store.UpdateOptions{})
//
// # Client
//
// The adapter talks to DynamoDB through the [Client] interface, which
// *dynamodb.Client satisfies. Tests substitute a double.
//
// # Errors
//
//   - [ErrPreconditionFailed] - the conditional check of an update failed
//   - [ErrUnavailable] - any other backend or transport failure, including
//     context cancellation
//   - [ErrEmptyUpdate] - an update was requested with no fields
package store
