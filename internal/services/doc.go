// Package services holds the use cases that combine the invoice document
// model, the query log and the invoice repositories.
package services
