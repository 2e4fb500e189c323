// Package registry is a reference claim store for investor uniqueness. It
// keeps the CddId of each identity, as attested by a trusted CDD provider,
// and the investor uniqueness claims whose proofs verified against it, and
// counts the beneficial investors of an asset scope.
package registry

import (
	"bytes"
	"context"
	"time"

	"github.com/go-errors/errors"
	"github.com/multiformats/go-multihash"
	"github.com/sirupsen/logrus"
	bolt "go.etcd.io/bbolt"
	"golang.org/x/sync/errgroup"

	"github.com/privacybydesign/investoruid"
	"github.com/privacybydesign/investoruid/cbor"
	"github.com/privacybydesign/investoruid/signed"
)

var (
	ErrUnknownIdentity  = errors.New("identity has no cdd claim")
	ErrCddIDMismatch    = errors.New("claim cdd id differs from the registered cdd id")
	ErrScopeIDConflict  = errors.New("identity already holds another scope id for this scope")
	ErrUnknownProvider  = errors.New("unknown cdd provider")
	ErrNotFound         = errors.New("not found")
	ErrRegistryReadOnly = errors.New("registry opened read-only")
	ErrInvalidCddRecord = errors.New("stored cdd record does not match its attestation")
)

var (
	bucketCdd        = []byte("cdd")
	bucketUniqueness = []byte("uniqueness")
	bucketScopes     = []byte("scopes")
)

const DefaultConcurrency = 8

type (
	// DB is a bbolt database of CDD claims and investor uniqueness claims.
	DB struct {
		bolt        *bolt.DB
		keystore    Keystore
		metrics     *Metrics
		concurrency int
		now         func() time.Time
		readOnly    bool
	}

	Option func(*DB)

	// CddAttestation is signed by a CDD provider to register the CddId of
	// an identity.
	CddAttestation struct {
		DID    investoruid.IdentityID
		CddID  investoruid.CddID
		Issued time.Time
	}

	// CddRecord is the stored form of an accepted CddAttestation. The
	// signed message is kept so that the attestation can be re-verified.
	CddRecord struct {
		CddID    investoruid.CddID
		Provider string
		Issued   time.Time
		Message  signed.Message
	}

	// UniquenessRecord is the stored form of an accepted investor
	// uniqueness claim. Only a digest of the proof is kept.
	UniquenessRecord struct {
		DID          investoruid.IdentityID
		Scope        investoruid.Scope
		ScopeID      investoruid.ScopeID
		CddID        investoruid.CddID
		ProofVersion investoruid.ProofVersion
		ProofDigest  []byte
		Added        time.Time
	}

	// Submission is an investor uniqueness claim with its proof, as
	// submitted by the identity DID.
	Submission struct {
		DID   investoruid.IdentityID
		Claim investoruid.InvestorUniquenessClaim
		Proof investoruid.InvestorZKProofData
	}
)

func WithMetrics(m *Metrics) Option {
	return func(db *DB) { db.metrics = m }
}

// WithConcurrency bounds the number of concurrent verifications in VerifyBatch.
func WithConcurrency(n int) Option {
	return func(db *DB) {
		if n > 0 {
			db.concurrency = n
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(db *DB) { db.now = now }
}

// ReadOnly opens the database without write access, so that several
// processes can inspect it at once.
func ReadOnly() Option {
	return func(db *DB) { db.readOnly = true }
}

func Open(path string, keystore Keystore, opts ...Option) (*DB, error) {
	db := &DB{
		keystore:    keystore,
		concurrency: DefaultConcurrency,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(db)
	}

	b, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second, ReadOnly: db.readOnly})
	if err != nil {
		return nil, errors.WrapPrefix(err, "failed to open registry", 0)
	}
	db.bolt = b
	if db.readOnly {
		return db, nil
	}
	err = b.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{bucketCdd, bucketUniqueness, bucketScopes} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		_ = b.Close()
		return nil, errors.WrapPrefix(err, "failed to initialize registry", 0)
	}
	return db, nil
}

func (db *DB) Close() error {
	if db.bolt != nil {
		return db.bolt.Close()
	}
	return nil
}

// AddCddClaim verifies the attestation signed by provider and registers
// the attested CddId for the identity, replacing any previous one.
func (db *DB) AddCddClaim(provider string, msg signed.Message) (*CddAttestation, error) {
	if db.readOnly {
		return nil, ErrRegistryReadOnly
	}
	pk, err := db.keystore.PublicKey(provider)
	if err != nil {
		return nil, err
	}
	var att CddAttestation
	if err = signed.UnmarshalVerify(pk, msg, &att); err != nil {
		return nil, errors.WrapPrefix(err, "invalid cdd attestation", 0)
	}
	if err = att.CddID.Validate(); err != nil {
		return nil, err
	}

	bts, err := cbor.Marshal(&CddRecord{
		CddID:    att.CddID,
		Provider: provider,
		Issued:   att.Issued,
		Message:  msg,
	})
	if err != nil {
		return nil, err
	}
	err = db.bolt.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketCdd)
		if old := b.Get(att.DID[:]); old != nil {
			var prev CddRecord
			if err := cbor.Unmarshal(old, &prev); err == nil && prev.CddID != att.CddID {
				Logger.WithFields(logrus.Fields{"did": att.DID, "provider": provider}).Warn("replacing cdd id")
			}
		}
		return b.Put(att.DID[:], bts)
	})
	if err != nil {
		return nil, err
	}

	db.metrics.IncrementClaims("cdd")
	Logger.WithFields(logrus.Fields{"did": att.DID, "provider": provider}).Info("cdd claim added")
	return &att, nil
}

// CddRecord returns the stored CDD claim of did.
func (db *DB) CddRecord(did investoruid.IdentityID) (*CddRecord, error) {
	var r CddRecord
	err := db.bolt.View(func(tx *bolt.Tx) error {
		return get(tx, bucketCdd, did[:], &r, ErrUnknownIdentity)
	})
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (db *DB) CddIDOf(did investoruid.IdentityID) (investoruid.CddID, error) {
	r, err := db.CddRecord(did)
	if err != nil {
		return investoruid.CddID{}, err
	}
	return r.CddID, nil
}

// UnmarshalVerify re-verifies the stored provider signature.
func (r *CddRecord) UnmarshalVerify(keystore Keystore) (*CddAttestation, error) {
	pk, err := keystore.PublicKey(r.Provider)
	if err != nil {
		return nil, err
	}
	att := &CddAttestation{}
	if err = signed.UnmarshalVerify(pk, r.Message, att); err != nil {
		return nil, errors.WrapPrefix(ErrInvalidCddRecord, err.Error(), 0)
	}
	if att.CddID != r.CddID {
		return nil, ErrInvalidCddRecord
	}
	return att, nil
}

// Verify checks a submission against the registered CddId of its identity
// without storing anything. The provider's signature over the registered
// CddId is checked again first.
func (db *DB) Verify(sub Submission) error {
	record, err := db.CddRecord(sub.DID)
	if err != nil {
		return err
	}
	att, err := record.UnmarshalVerify(db.keystore)
	if err != nil {
		return err
	}
	if att.DID != sub.DID {
		return errors.WrapPrefix(ErrInvalidCddRecord, "attested for "+att.DID.String(), 0)
	}
	if att.CddID != sub.Claim.CddID {
		return ErrCddIDMismatch
	}
	start := time.Now()
	err = investoruid.VerifyClaim(sub.Claim, sub.DID, sub.Proof)
	db.metrics.ObserveVerification(sub.Proof.Version(), err, time.Since(start))
	return err
}

// VerifyBatch verifies the submissions concurrently and returns one result
// per submission. Submissions not yet started when ctx is done fail with
// the context's error.
func (db *DB) VerifyBatch(ctx context.Context, subs []Submission) []error {
	errs := make([]error, len(subs))
	var g errgroup.Group
	g.SetLimit(db.concurrency)
	for i := range subs {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				errs[i] = err
				return nil
			}
			errs[i] = db.Verify(subs[i])
			return nil
		})
	}
	_ = g.Wait()
	return errs
}

// AddInvestorUniquenessClaim verifies the submission and stores the claim.
// Resubmitting a claim with the same ScopeId is allowed; a different
// ScopeId for a scope the identity already has a claim for is not.
func (db *DB) AddInvestorUniquenessClaim(sub Submission) error {
	if db.readOnly {
		return ErrRegistryReadOnly
	}
	log := Logger.WithFields(logrus.Fields{"did": sub.DID, "scope": sub.Claim.Scope})
	if err := db.Verify(sub); err != nil {
		log.Warn("investor uniqueness claim rejected: ", err)
		return err
	}

	encoded, err := sub.Proof.MarshalBinary()
	if err != nil {
		return err
	}
	digest, err := multihash.Sum(encoded, multihash.SHA2_256, -1)
	if err != nil {
		return errors.WrapPrefix(err, "proof digest", 0)
	}
	record := &UniquenessRecord{
		DID:          sub.DID,
		Scope:        sub.Claim.Scope,
		ScopeID:      sub.Claim.ScopeID,
		CddID:        sub.Claim.CddID,
		ProofVersion: sub.Proof.Version(),
		ProofDigest:  digest,
		Added:        db.now(),
	}
	bts, err := cbor.Marshal(record)
	if err != nil {
		return err
	}

	key := uniquenessKey(sub.DID, sub.Claim.Scope)
	err = db.bolt.Update(func(tx *bolt.Tx) error {
		var cdd CddRecord
		if err := get(tx, bucketCdd, sub.DID[:], &cdd, ErrUnknownIdentity); err != nil {
			return err
		}
		// The cdd claim may have been replaced since verification
		if cdd.CddID != sub.Claim.CddID {
			return ErrCddIDMismatch
		}

		var prev UniquenessRecord
		err := get(tx, bucketUniqueness, key, &prev, ErrNotFound)
		switch {
		case err == nil && prev.ScopeID != record.ScopeID:
			return ErrScopeIDConflict
		case err != nil && !errors.Is(err, ErrNotFound):
			return err
		}

		if err = tx.Bucket(bucketUniqueness).Put(key, bts); err != nil {
			return err
		}
		investors, err := tx.Bucket(bucketScopes).CreateBucketIfNotExists(sub.Claim.Scope.Bytes())
		if err != nil {
			return err
		}
		return investors.Put(sub.Claim.ScopeID[:], []byte{})
	})
	if err != nil {
		log.Warn("investor uniqueness claim not stored: ", err)
		return err
	}

	db.metrics.IncrementClaims("uniqueness")
	log.WithField("proof", multihash.Multihash(digest).B58String()).Info("investor uniqueness claim added")
	return nil
}

func (db *DB) UniquenessRecord(did investoruid.IdentityID, scope investoruid.Scope) (*UniquenessRecord, error) {
	var r UniquenessRecord
	err := db.bolt.View(func(tx *bolt.Tx) error {
		return get(tx, bucketUniqueness, uniquenessKey(did, scope), &r, ErrNotFound)
	})
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (db *DB) ScopeIDOf(did investoruid.IdentityID, scope investoruid.Scope) (investoruid.ScopeID, error) {
	r, err := db.UniquenessRecord(did, scope)
	if err != nil {
		return investoruid.ScopeID{}, err
	}
	return r.ScopeID, nil
}

// InvestorCount returns the number of distinct beneficial investors holding
// a uniqueness claim for scope. Identities of the same investor share their
// ScopeId and count once.
func (db *DB) InvestorCount(scope investoruid.Scope) (int, error) {
	count := 0
	err := db.bolt.View(func(tx *bolt.Tx) error {
		scopes := tx.Bucket(bucketScopes)
		if scopes == nil {
			return nil
		}
		investors := scopes.Bucket(scope.Bytes())
		if investors == nil {
			return nil
		}
		return investors.ForEach(func(_, _ []byte) error {
			count++
			return nil
		})
	})
	return count, err
}

// Holders returns the identities holding a uniqueness claim for scope.
func (db *DB) Holders(scope investoruid.Scope) ([]investoruid.IdentityID, error) {
	var dids []investoruid.IdentityID
	suffix := scope.Bytes()
	err := db.bolt.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketUniqueness)
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, _ []byte) error {
			if len(k) > 32 && bytes.Equal(k[32:], suffix) {
				var did investoruid.IdentityID
				copy(did[:], k[:32])
				dids = append(dids, did)
			}
			return nil
		})
	})
	return dids, err
}

func uniquenessKey(did investoruid.IdentityID, scope investoruid.Scope) []byte {
	return append(append([]byte(nil), did[:]...), scope.Bytes()...)
}

func get(tx *bolt.Tx, bucket, key []byte, dst interface{}, notFound error) error {
	b := tx.Bucket(bucket)
	if b == nil {
		return notFound
	}
	bts := b.Get(key)
	if bts == nil {
		return notFound
	}
	return cbor.Unmarshal(bts, dst)
}
