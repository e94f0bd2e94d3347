package capture

// Installed before any page script runs. Wraps RTCPeerConnection so
// every remote audio track the conference establishes is mixed into a
// single destination stream, and records that stream with
// MediaRecorder in small chunks.
//
// Tracks arrive and disappear as participants join, leave and mute;
// connecting a track is idempotent (keyed by track id) and late
// arrivals mix in without disturbing tracks already connected. Zero
// connected tracks simply records near-silence.
//
// window.__capture is the contract with the Go side:
//   startRecording() -> bool (no-op true when already recording;
//                       false only when the mixed stream has no
//                       audio tracks at all)
//   stopRecording()  -> data URL of the finalized blob, or null when
//                       nothing was captured or not recording
//   status()         -> { isRecording, chunks, totalBytes,
//                         connectedTracks }
const initScript = `
(() => {
    'use strict';
    const TAG = '[capture]';

    let recCtx = null;
    let recDest = null;
    let mediaRecorder = null;
    let recordedChunks = [];
    let totalRecBytes = 0;
    let isRecording = false;
    let connectedTrackIds = new Set();

    function ensureRecordingContext() {
        if (!recCtx) {
            recCtx = new (window.AudioContext || window.webkitAudioContext)({ sampleRate: 48000 });
            recDest = recCtx.createMediaStreamDestination();
            console.log(TAG, 'recording AudioContext created');
        }
        if (recCtx.state === 'suspended') recCtx.resume().catch(() => {});
        return { ctx: recCtx, dest: recDest };
    }

    function connectTrack(track) {
        if (connectedTrackIds.has(track.id)) return;
        try {
            const { ctx, dest } = ensureRecordingContext();
            if (ctx.state === 'suspended') ctx.resume().catch(() => {});
            const src = ctx.createMediaStreamSource(new MediaStream([track]));
            src.connect(dest);
            connectedTrackIds.add(track.id);
            console.log(TAG, 'remote track connected:', track.id.substring(0, 20));
        } catch (err) {
            console.error(TAG, 'error connecting track:', err);
        }
    }

    const OrigRTC = window.RTCPeerConnection || window.webkitRTCPeerConnection;
    if (OrigRTC) {
        // Wrapper constructor returning a real RTCPeerConnection with
        // an extra 'track' listener for the mixer
        function WrappedRTCPeerConnection(...args) {
            const pc = new OrigRTC(...args);
            pc.addEventListener('track', (event) => {
                if (event.track.kind === 'audio') {
                    console.log(TAG, 'remote audio track received');
                    connectTrack(event.track);
                    event.track.addEventListener('ended', () => {
                        connectedTrackIds.delete(event.track.id);
                        console.log(TAG, 'remote audio track ended');
                    });
                }
            });
            return pc;
        }

        // Preserve the prototype chain so instanceof checks still pass
        WrappedRTCPeerConnection.prototype = OrigRTC.prototype;

        // Carry over statics (e.g. generateCertificate)
        for (const key of Object.getOwnPropertyNames(OrigRTC)) {
            if (key === 'prototype' || key === 'length' || key === 'name') continue;
            try {
                Object.defineProperty(WrappedRTCPeerConnection, key,
                    Object.getOwnPropertyDescriptor(OrigRTC, key));
            } catch (_) {}
        }

        window.RTCPeerConnection = WrappedRTCPeerConnection;
        if (window.webkitRTCPeerConnection) {
            window.webkitRTCPeerConnection = WrappedRTCPeerConnection;
        }
        console.log(TAG, 'RTCPeerConnection interceptor installed');
    }

    window.__capture = {
        startRecording: function () {
            if (isRecording) return true;
            const { ctx, dest } = ensureRecordingContext();
            try {
                if (ctx.state === 'suspended') ctx.resume().catch(() => {});
                const stream = dest.stream;
                if (stream.getAudioTracks().length === 0) {
                    console.log(TAG, 'no audio tracks in recording stream');
                    return false;
                }
                const mime = MediaRecorder.isTypeSupported('audio/webm;codecs=opus')
                    ? 'audio/webm;codecs=opus' : 'audio/webm';
                mediaRecorder = new MediaRecorder(stream, { mimeType: mime });
                recordedChunks = [];
                totalRecBytes = 0;

                mediaRecorder.ondataavailable = (e) => {
                    if (e.data && e.data.size > 0) {
                        recordedChunks.push(e.data);
                        totalRecBytes += e.data.size;
                    }
                };
                mediaRecorder.onerror = (e) => console.error(TAG, 'recorder error:', e.error || e);
                mediaRecorder.start(3000);
                isRecording = true;
                console.log(TAG, 'recording started (' + mime + '), tracks:', connectedTrackIds.size);
                return true;
            } catch (err) {
                console.error(TAG, 'failed to start recording:', err);
                return false;
            }
        },

        stopRecording: function () {
            if (!mediaRecorder || !isRecording) return Promise.resolve(null);
            return new Promise(resolve => {
                mediaRecorder.onstop = () => {
                    isRecording = false;
                    console.log(TAG, 'recorder stopped, chunks:', recordedChunks.length,
                                'bytes:', totalRecBytes);
                    if (recordedChunks.length === 0 || totalRecBytes === 0) {
                        resolve(null); return;
                    }
                    try {
                        const blob = new Blob(recordedChunks, { type: 'audio/webm' });
                        if (blob.size === 0) { resolve(null); return; }
                        const reader = new FileReader();
                        reader.onloadend = () => resolve(reader.result);
                        reader.onerror = () => resolve(null);
                        reader.readAsDataURL(blob);
                    } catch (err) {
                        console.error(TAG, 'blob error:', err);
                        resolve(null);
                    }
                };
                try {
                    if (mediaRecorder.state !== 'inactive') mediaRecorder.stop();
                    else resolve(null);
                } catch (_) { resolve(null); }
            });
        },

        status: function () {
            return {
                isRecording,
                chunks: recordedChunks.length,
                totalBytes: totalRecBytes,
                connectedTracks: connectedTrackIds.size
            };
        }
    };

    console.log(TAG, 'mixer and recorder installed');
})();
`
