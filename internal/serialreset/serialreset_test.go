package serialreset

import (
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"gitlab.com/usli/pio-uploader/internal/serialreset/mocks"
)

type fakePort struct {
	closed   bool
	closeErr error
}

func (p *fakePort) Close() error {
	p.closed = true
	return p.closeErr
}

func TestReset(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	testPort := "/dev/ttyUSB0"

	tests := map[string]struct {
		port        string
		prepare     func(*mocks.MockOpener) *fakePort
		expectedErr error
	}{
		"open and close succeed": {
			port: testPort,
			prepare: func(mockOpener *mocks.MockOpener) *fakePort {
				p := &fakePort{}
				mockOpener.EXPECT().Open(testPort, DefaultBaudRate).Times(1).Return(p, nil)
				return p
			},
			expectedErr: nil,
		},
		"open failure": {
			port: testPort,
			prepare: func(mockOpener *mocks.MockOpener) *fakePort {
				mockOpener.EXPECT().Open(testPort, DefaultBaudRate).Times(1).Return(nil, errors.New("no such file or directory"))
				return nil
			},
			expectedErr: ErrResetFailed,
		},
		"close failure": {
			port: testPort,
			prepare: func(mockOpener *mocks.MockOpener) *fakePort {
				p := &fakePort{closeErr: errors.New("busy")}
				mockOpener.EXPECT().Open(testPort, DefaultBaudRate).Times(1).Return(p, nil)
				return p
			},
			expectedErr: ErrResetFailed,
		},
		"empty port is rejected without opening": {
			port: "",
			prepare: func(mockOpener *mocks.MockOpener) *fakePort {
				return nil
			},
			expectedErr: ErrEmptyPort,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			mockOpener := mocks.NewMockOpener(ctrl)
			p := tc.prepare(mockOpener)

			resetter := New(&Config{Opener: mockOpener, Logger: logrus.StandardLogger()})
			err := resetter.Reset(tc.port, DefaultBaudRate)
			if tc.expectedErr == nil {
				assert.Nil(t, err)
			} else {
				assert.True(t, errors.Is(err, ErrResetFailed))
				assert.Contains(t, err.Error(), tc.expectedErr.Error())
			}
			if p != nil {
				assert.True(t, p.closed)
			}
		})
	}
}
