// Package services holds the business rules of the application.
//
// Services defined in this package:
//   - StudentService: registers, edits, removes and queries student records
//     and computes dashboard statistics
//
// Every operation runs inside one unit of work of a repositories.StudentStore.
package services
