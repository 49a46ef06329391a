package client

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/featherdb/pgdriver/codec"
	"github.com/featherdb/pgdriver/protocol"
)

// messageStream is the extended-query flow for one Execute call. It is
// cold: no frame is sent until the first message is demanded, and inbound
// messages are pulled one at a time by the consumer's demand.
//
// On start it resolves the statement name (parsing it server-side if the
// cache has not seen the SQL), then emits, per binding in order, a
// bind/describe/execute/close-portal frame group, with a single sync frame
// closing the sequence. The flow treats inbound messages opaquely except
// for the control markers used for sequencing.
type messageStream struct {
	client       Client
	cache        StatementCache
	portalNames  PortalNameSupplier
	sql          string
	bindings     []*Binding
	resultFormat protocol.Format
	log          *logrus.Entry

	started bool
	done    bool
	err     error
}

func newExtendedQueryFlow(client Client, cache StatementCache, portalNames PortalNameSupplier, sql string, bindings []*Binding, forceBinary bool, log *logrus.Entry) *messageStream {
	resultFormat := protocol.FormatText
	if forceBinary {
		resultFormat = protocol.FormatBinary
	}
	return &messageStream{
		client:       client,
		cache:        cache,
		portalNames:  portalNames,
		sql:          sql,
		bindings:     bindings,
		resultFormat: resultFormat,
		log:          log,
	}
}

// next returns the next backend message, starting the flow on first demand.
// A stream that already delivered its ready-for-query marker reports any
// further demand as a missing-terminator fault: the caller expected another
// response window that cannot arrive.
func (s *messageStream) next(ctx context.Context) (protocol.BackendMessage, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.done {
		return nil, protocol.MissingTerminatorError(s.sql)
	}

	if !s.started {
		s.started = true
		if err := s.start(ctx); err != nil {
			s.err = err
			return nil, err
		}
	}

	msg, err := s.client.Receive(ctx)
	if err != nil {
		s.err = err
		return nil, err
	}
	if _, ok := msg.(protocol.ReadyForQuery); ok {
		s.done = true
	}
	return msg, nil
}

// start resolves the statement and sends the whole frame sequence for all
// bindings in one batch.
func (s *messageStream) start(ctx context.Context) error {
	name, err := s.cache.Resolve(ctx, s.bindings[0], s.sql)
	if err != nil {
		return err
	}

	frames := make([]protocol.FrontendMessage, 0, len(s.bindings)*4+1)
	for _, binding := range s.bindings {
		portal := s.portalNames()
		s.log.WithFields(logrus.Fields{
			fieldStatement: name,
			fieldPortal:    portal,
		}).Debug("binding portal")
		frames = append(frames,
			&protocol.Bind{
				Portal:       portal,
				Statement:    name,
				Values:       bindValues(binding.Parameters()),
				ResultFormat: s.resultFormat,
			},
			&protocol.Describe{Target: protocol.TargetPortal, Name: portal},
			&protocol.Execute{Portal: portal},
			&protocol.Close{Target: protocol.TargetPortal, Name: portal},
		)
	}
	frames = append(frames, &protocol.Sync{})

	s.log.WithFields(logrus.Fields{
		fieldStatement: name,
		fieldBindings:  len(s.bindings),
	}).Debug("executing extended query flow")

	return s.client.Send(ctx, frames...)
}

func bindValues(params []codec.Parameter) []protocol.BindValue {
	values := make([]protocol.BindValue, len(params))
	for i, p := range params {
		values[i] = protocol.BindValue{Format: p.Format, Data: p.Data, Null: p.Null}
	}
	return values
}
