// Package testutil provides shared fakes for the transcriber's tests.
//
//   - FakeRunner (fake_runner.go): an execx.Runner that records calls and
//     lets a handler decide each outcome, so tool wrappers run without
//     spawning ffmpeg or whisper.
//   - FakeToolchain (fake_toolchain.go): an api.Toolchain that writes canned
//     waveforms and caption tracks, or fails on demand.
//   - MockTranscriptDAO (mock_transcript_dao.go): an in-memory
//     repository.TranscriptDAO whose methods can be overridden with
//     testify expectations.
//
// # Usage Examples
//
//	tools := testutil.NewFakeToolchain()
//	tools.Captions = "WEBVTT\n\n00:00:00.000 --> 00:00:01.000\nHello world\n"
//	tools.CaptionErr = errors.New("model missing")
//
//	dao := testutil.NewMockTranscriptDAO()
//	dao.On("Record", mock.Anything, mock.Anything).Return(errors.New("disk full"))
package testutil
