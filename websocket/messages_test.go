// file: websocket/messages_test.go
package websocket

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go-patient-caller/models"
	"go-patient-caller/services"
)

func TestDecodeCommand_KnownEvents(t *testing.T) {
	cases := []struct {
		raw  string
		want services.Command
	}{
		{`{"event":"professional_login","data":{"name":"Ana","role":"doctor"}}`,
			services.LoginCommand{ProfessionalName: "Ana", Role: "doctor"}},
		{`{"event":"professional_logout"}`, services.LogoutCommand{}},
		{`{"event":"add_patient","data":{"name":"Maria"}}`,
			services.AddPatientCommand{PatientName: "Maria", Priority: models.PriorityNormal}},
		{`{"event":"add_patient","data":{"name":"Maria","priority":" HIGH "}}`,
			services.AddPatientCommand{PatientName: "Maria", Priority: models.PriorityHigh}},
		{`{"event":"call_patient","data":"patient_1"}`, services.CallPatientCommand{PatientID: "patient_1"}},
		{`{"event":"call_patient","data":{"patientId":"patient_1"}}`, services.CallPatientCommand{PatientID: "patient_1"}},
		{`{"event":"confirm_or_stop_call","data":{"patientId":"patient_1","confirmed":true}}`,
			services.StopCallCommand{PatientID: "patient_1", Confirmed: true}},
		{`{"event":"update_video","data":"https://youtube.com/playlist?list=PL1"}`,
			services.UpdateVideoCommand{URL: "https://youtube.com/playlist?list=PL1"}},
		{`{"event":"update_video","data":null}`, services.UpdateVideoCommand{}},
	}

	for _, tc := range cases {
		cmd, err := decodeCommand([]byte(tc.raw))
		require.NoError(t, err, tc.raw)
		assert.Equal(t, tc.want, cmd, tc.raw)
	}
}

func TestDecodeCommand_MissingDataIsLeftToTheHandlers(t *testing.T) {
	cmd, err := decodeCommand([]byte(`{"event":"professional_login"}`))
	require.NoError(t, err)
	assert.Equal(t, services.LoginCommand{}, cmd)
}

func TestDecodeCommand_BadPayloadsMapToDomainErrors(t *testing.T) {
	cases := []struct {
		raw  string
		want *services.Error
	}{
		{`{"event":"professional_login","data":[1,2]}`, services.ErrInvalidLogin},
		{`{"event":"add_patient","data":{"name":"Maria","priority":"urgent"}}`, services.ErrInvalidPatient},
		{`{"event":"call_patient","data":{}}`, services.ErrPatientNotFound},
		{`{"event":"call_patient"}`, services.ErrPatientNotFound},
		{`{"event":"confirm_or_stop_call","data":7}`, services.ErrNoActiveCall},
		{`{"event":"update_video","data":{"url":"x"}}`, services.ErrInvalidMediaLink},
	}

	for _, tc := range cases {
		_, err := decodeCommand([]byte(tc.raw))
		assert.ErrorIs(t, err, tc.want, tc.raw)
	}
}

func TestDecodeCommand_TransportErrors(t *testing.T) {
	_, err := decodeCommand([]byte(`{"event":`))
	assert.ErrorIs(t, err, errMalformedEnvelope)

	_, err = decodeCommand([]byte(`{"event":"self_destruct"}`))
	assert.ErrorIs(t, err, errUnknownEvent)
	assert.Equal(t, services.Kind(0), services.KindOf(err))
}

func TestEncodeEvent(t *testing.T) {
	msg, err := encodeEvent(services.Event{Name: services.EventCallStopped})
	require.NoError(t, err)
	assert.JSONEq(t, `{"event":"call_stopped"}`, string(msg))

	var cleared *string
	msg, err = encodeEvent(services.Event{Name: services.EventVideoUpdated, Payload: cleared})
	require.NoError(t, err)
	assert.JSONEq(t, `{"event":"video_updated","data":null}`, string(msg))

	msg, err = encodeError(services.NewError(services.NotOwner, "You can only end calls you started."))
	require.NoError(t, err)
	assert.JSONEq(t, `{"event":"error_message","data":"You can only end calls you started."}`, string(msg))
}
