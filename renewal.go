package fairplay

// RenewalRequest is the renewal entry point's request kind. The caller
// distinguishes initial and renewal requests; this client must not.
type RenewalRequest struct {
   Uri string
}

// HandleRenewal feeds a renewal request through the identical pipeline, so
// the two entry points cannot drift in behavior.
func (o *Orchestrator) HandleRenewal(request *RenewalRequest, pending PendingRequest) bool {
   return o.Handle(&KeyRequest{Uri: request.Uri}, pending)
}
