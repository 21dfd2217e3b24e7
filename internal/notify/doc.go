// Package notify mails a rendered page to a recipient list.
//
// Delivery is sequential with one attempt per recipient. A failed send is
// logged and counted, and the loop moves on. A SQLite ledger remembers which
// recipient already received which version of a page so a rerun only mails
// the recipients that were missed.
package notify
