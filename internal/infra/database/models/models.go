package models

import (
	"time"
)

// SignatureSubmission is one accepted co-signature. The (declaration,
// address) pair is unique: a signer appears at most once per declaration no
// matter how many times they submit.
type SignatureSubmission struct {
	ID              int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	DeclarationTxID string    `json:"declarationTxId" gorm:"type:text;index:submission_decl_addr,unique"`
	Address         string    `json:"address" gorm:"type:text;index:submission_decl_addr,unique"`
	Name            string    `json:"name" gorm:"type:text"`
	Handle          string    `json:"handle" gorm:"type:text"`
	Signature       string    `json:"signature" gorm:"type:text"`
	Verified        bool      `json:"verified" gorm:"type:boolean;not null;default:false"`
	LedgerTxID      string    `json:"ledgerTxId" gorm:"type:text"`
	CDate           time.Time `json:"cdate" gorm:"->;<-:create;type:timestamp with time zone;not null;default:clock_timestamp()"`
}

// Fork records a derivative declaration published through this relay.
type Fork struct {
	ID      int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	OldTxID string    `json:"oldTxId" gorm:"type:text;index"`
	NewTxID string    `json:"newTxId" gorm:"type:text;index:fork_new_tx,unique"`
	Text    string    `json:"text" gorm:"type:text"`
	Authors string    `json:"authors" gorm:"type:text"`
	CDate   time.Time `json:"cdate" gorm:"->;<-:create;type:timestamp with time zone;not null;default:clock_timestamp()"`
}

// VerifiedHandle records a social handle whose identity proof checked out
// for an address.
type VerifiedHandle struct {
	Handle  string    `json:"handle" gorm:"primaryKey;type:text"`
	Address string    `json:"address" gorm:"type:text;index"`
	CDate   time.Time `json:"cdate" gorm:"->;<-:create;type:timestamp with time zone;not null;default:clock_timestamp()"`
}
