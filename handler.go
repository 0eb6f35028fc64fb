package j18n

// ChainState is the claim state of a handler within one traversal.
type ChainState int

const (
	// Unclaimed handlers classify the record they are handed.
	Unclaimed ChainState = iota
	// Claimed handlers hold a result, either computed or inherited from the
	// handler that claimed the record.
	Claimed
)

func (s ChainState) String() string {
	if s == Claimed {
		return "claimed"
	}
	return "unclaimed"
}

// Handler is a link of a classification chain.
//
// Handle on an Unclaimed handler classifies the record. When the handler
// claims it, the handler and every handler after it become Claimed and hold
// the same *DiffResult. The record is then passed on; the last handler
// returns its result. Handle on a Claimed handler does no work: it returns
// the held result and resets the handler and its successors to Unclaimed.
//
// A chain therefore classifies one record per traversal. The handler that
// claimed stays Claimed afterwards, so a chain used for a second record
// returns the first record's result once more and is reset by doing so.
// Build a fresh chain per record, as Session.Classify does.
type Handler interface {
	Handle(rec Record) (*DiffResult, error)
	// SetNext links next after the handler and returns next, so links can
	// be chained. A nil next ends the chain.
	SetNext(next Handler) Handler
	Next() Handler
	State() ChainState
	Result() *DiffResult

	base() *baseHandler
}

type classifyFunc func(Record) (*DiffResult, bool, error)

type baseHandler struct {
	s        *Session
	name     string
	classify classifyFunc

	next   Handler
	state  ChainState
	result *DiffResult

	// claims counts the records this handler classified itself.
	claims int
}

func (s *Session) newHandler(name string, fn classifyFunc) *baseHandler {
	return &baseHandler{s: s, name: name, classify: fn}
}

func (h *baseHandler) base() *baseHandler { return h }

func (h *baseHandler) Next() Handler       { return h.next }
func (h *baseHandler) State() ChainState   { return h.state }
func (h *baseHandler) Result() *DiffResult { return h.result }

func (h *baseHandler) SetNext(next Handler) Handler {
	h.next = next
	return next
}

func (h *baseHandler) Handle(rec Record) (*DiffResult, error) {
	if h.state == Claimed {
		res := h.result
		h.reset()
		return res, nil
	}
	res, ok, err := h.classify(rec)
	if err != nil {
		return nil, err
	}
	if ok {
		h.claim(res)
		h.s.log.Debug("diff record claimed", "handler", h.name, "path", rec.Path(), "kind", res.Type)
	}
	if h.next == nil {
		return h.result, nil
	}
	return h.next.Handle(rec)
}

// claim stores res on h and hands the same pointer to every successor.
func (h *baseHandler) claim(res *DiffResult) {
	h.claims++
	for cur := h; cur != nil; cur = successor(cur) {
		cur.state = Claimed
		cur.result = res
	}
}

// reset clears h and every successor.
func (h *baseHandler) reset() {
	for cur := h; cur != nil; cur = successor(cur) {
		cur.state = Unclaimed
		cur.result = nil
	}
}

func successor(h *baseHandler) *baseHandler {
	if h.next == nil {
		return nil
	}
	return h.next.base()
}
