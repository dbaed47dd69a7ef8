package engine_test

import (
	"i4.energy/across/atcmd/engine"
)

// MockSequenceBuilder records the transport calls one Update makes while
// consuming a scripted input.
type MockSequenceBuilder struct {
	transport *engine.MockTransport
	calls     []any
}

func NewMockSequence(transport *engine.MockTransport) *MockSequenceBuilder {
	return &MockSequenceBuilder{
		transport: transport,
		calls:     []any{},
	}
}

// Input expects input to be polled and read one byte at a time.
func (b *MockSequenceBuilder) Input(input string) *MockSequenceBuilder {
	for i := 0; i < len(input); i++ {
		b.calls = append(b.calls,
			b.transport.EXPECT().Available().Return(len(input)-i),
			b.transport.EXPECT().ReadByte().Return(input[i], nil),
		)
	}
	return b
}

// Line expects line to be written.
func (b *MockSequenceBuilder) Line(line string) *MockSequenceBuilder {
	b.calls = append(b.calls, b.transport.EXPECT().WriteLine(line).Return(nil))
	return b
}

func (b *MockSequenceBuilder) OK() *MockSequenceBuilder {
	return b.Line("OK")
}

func (b *MockSequenceBuilder) Error() *MockSequenceBuilder {
	return b.Line("ERROR")
}

// Idle expects the final poll that finds nothing left.
func (b *MockSequenceBuilder) Idle() *MockSequenceBuilder {
	b.calls = append(b.calls, b.transport.EXPECT().Available().Return(0))
	return b
}

func (b *MockSequenceBuilder) Build() []any {
	return b.calls
}
