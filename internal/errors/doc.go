// Package errors provides the structured error type used across the editor.
//
// Every error carries a Code, a message, an optional cause and metadata. The
// code decides how far a failure reaches:
//   - FailedPrecondition: a required asset directory or file is missing, or a
//     refill step cannot be paid for. Build-time failures abort the run.
//   - NotFound: a lookup in a derived table missed. Callers log and continue.
//   - ResourceExhausted: an item found no free cell in an inventory grid. Scoped
//     to that item.
//   - DataLoss: an inventory grid overlaps or runs out of bounds. Scoped to
//     that unit.
//
// # Basic Usage
//
//	err := errors.NotFoundf("breed %s not found", breed)
//
//	err := errors.ItemDoesNotFit("mp40.ammo", size, "0x8a3f")
//
//	if err := repo.Load(ctx, input); err != nil {
//	    return errors.Wrap(err, "failed to load campaign")
//	}
//
// # Checking
//
//	if errors.IsResourceExhausted(err) {
//	    sink.Log(err.Error())
//	    continue
//	}
//
// # Validation
//
//	vb := errors.NewValidationBuilder()
//	errors.ValidateDir("DataDir", cfg.DataDir, vb)
//	errors.ValidateEnum("CacheBackend", cfg.CacheBackend, backends, vb)
//	if err := vb.Build(); err != nil {
//	    return err
//	}
package errors
