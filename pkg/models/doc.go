// Package models defines the core domain models for confdesk.
//
// # Models
//
//   - Conference: A conference that assignments and payments belong to
//   - Assignment: A timed written assignment handed to a single registrant
//   - Payment: An order to be settled by bank transfer, with time-boxed discounts
//   - User: A registered account (registrants and viewers)
//
// # Design Principles
//
//  1. **Read-mostly payments**: payments are created and confirmed by an
//     external back-office process; this service only reads them.
//  2. **Index-aligned answers**: Assignment.Answers is always parallel to
//     Assignment.Problems once initialized; an absent answer is an empty
//     string, never an omitted entry.
//  3. **Avoid circular references**: models reference each other by ID
//     string, not by pointer.
package models
