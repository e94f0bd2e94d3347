package virtualmic

// Installed before any page script runs. Overrides the media-device
// APIs so the page never sees a real microphone: audio requests get a
// stream backed by an in-page audio graph, and a synthetic input
// device is reported when no physical one exists. The graph is built
// lazily, once; its destination stream is reused for the lifetime of
// the page so downstream consumers keep a valid source.
//
// window.__vmic is the contract between this script and the Go side:
//   ensureStream()  -> resumes the context, returns track count
//   playClip(url)   -> decodes (once) and plays the clip, resolves
//                      true on completion, false on failure/overlap
//   isSpeaking()    -> bool
const initScript = `
(() => {
    'use strict';
    const TAG = '[vmic]';

    let audioContext = null;
    let audioDestination = null;
    let virtualStream = null;
    let gainNode = null;
    let keepAliveOsc = null;
    let clipSource = null;
    let clipBuffer = null;
    let isSpeaking = false;

    const originalGetUserMedia = navigator.mediaDevices.getUserMedia.bind(navigator.mediaDevices);
    const originalEnumerateDevices = navigator.mediaDevices.enumerateDevices.bind(navigator.mediaDevices);

    // Inject the synthetic mic only when no physical one is present;
    // never report two.
    navigator.mediaDevices.enumerateDevices = async function () {
        let devices = [];
        try {
            devices = await originalEnumerateDevices();
        } catch (err) {
            console.log(TAG, 'enumerateDevices failed:', err.message);
        }
        const hasAudioInput = devices.some(d => d.kind === 'audioinput');
        if (!hasAudioInput) {
            console.log(TAG, 'no physical mic, injecting virtual device');
            devices.push({
                deviceId: 'virtual-mic',
                kind: 'audioinput',
                label: 'Virtual Microphone',
                groupId: 'virtual-mic-group',
                toJSON() {
                    return {
                        deviceId: this.deviceId, kind: this.kind,
                        label: this.label, groupId: this.groupId
                    };
                }
            });
        }
        return devices;
    };

    async function getVirtualAudioStream() {
        if (virtualStream && virtualStream.active) return virtualStream;

        if (!audioContext) {
            audioContext = new (window.AudioContext || window.webkitAudioContext)({ sampleRate: 48000 });
            console.log(TAG, 'AudioContext created, state:', audioContext.state);

            // Autoplay policy: the context only runs after a user
            // gesture, and the bot's trusted clicks count as one.
            const resumeOnGesture = async () => {
                if (audioContext && audioContext.state === 'suspended') {
                    try {
                        await audioContext.resume();
                        console.log(TAG, 'AudioContext resumed via gesture');
                    } catch (_) {}
                }
                startKeepAlive();
            };
            document.addEventListener('click', resumeOnGesture);
            document.addEventListener('keydown', resumeOnGesture);
            document.addEventListener('mousedown', resumeOnGesture);
        }

        if (!audioDestination) {
            audioDestination = audioContext.createMediaStreamDestination();
        }
        if (!gainNode) {
            gainNode = audioContext.createGain();
            gainNode.gain.value = 10.0;
            gainNode.connect(audioDestination);
        }
        if (audioContext.state === 'running') startKeepAlive();

        virtualStream = audioDestination.stream;
        console.log(TAG, 'virtual stream ready, tracks:', virtualStream.getAudioTracks().length);
        return virtualStream;
    }

    // Near-silent tone so the stream keeps producing frames; some
    // consumers stall on a destination with no connected sources.
    function startKeepAlive() {
        if (keepAliveOsc) return;
        if (!audioContext || !audioDestination || audioContext.state !== 'running') return;
        keepAliveOsc = audioContext.createOscillator();
        keepAliveOsc.frequency.value = 440;
        const g = audioContext.createGain();
        g.gain.value = 0.001;
        keepAliveOsc.connect(g);
        g.connect(audioDestination);
        keepAliveOsc.start();
        console.log(TAG, 'keep-alive oscillator started');
    }

    navigator.mediaDevices.getUserMedia = async function (constraints) {
        console.log(TAG, 'getUserMedia intercepted:', JSON.stringify(constraints));
        if (constraints && constraints.audio) {
            const vStream = await getVirtualAudioStream();
            if (constraints.video) {
                try {
                    const vidStream = await originalGetUserMedia({ video: constraints.video });
                    const combined = new MediaStream();
                    vStream.getAudioTracks().forEach(t => combined.addTrack(t));
                    vidStream.getVideoTracks().forEach(t => combined.addTrack(t));
                    return combined;
                } catch (_) {
                    return vStream;
                }
            }
            return vStream;
        }
        return originalGetUserMedia(constraints);
    };

    window.__vmic = {
        ensureStream: async function () {
            const stream = await getVirtualAudioStream();
            if (audioContext && audioContext.state === 'suspended') {
                try { await audioContext.resume(); } catch (_) {}
            }
            return stream.getAudioTracks().length;
        },

        playClip: async function (clipUrl) {
            if (isSpeaking) { console.log(TAG, 'already speaking'); return false; }
            try {
                await getVirtualAudioStream();
                if (audioContext.state === 'suspended') await audioContext.resume();
                if (!clipBuffer) {
                    console.log(TAG, 'decoding clip');
                    const resp = await fetch(clipUrl);
                    if (!resp.ok) throw new Error('fetch failed: ' + resp.status);
                    const ab = await resp.arrayBuffer();
                    clipBuffer = await audioContext.decodeAudioData(ab);
                    console.log(TAG, 'clip decoded:', clipBuffer.duration.toFixed(2) + 's');
                }
                clipSource = audioContext.createBufferSource();
                clipSource.buffer = clipBuffer;
                clipSource.connect(gainNode);
                isSpeaking = true;
                return new Promise(resolve => {
                    clipSource.onended = () => {
                        console.log(TAG, 'clip finished');
                        isSpeaking = false;
                        clipSource = null;
                        resolve(true);
                    };
                    clipSource.start(0);
                    console.log(TAG, 'clip playing through virtual mic');
                });
            } catch (err) {
                console.error(TAG, 'play error:', err);
                isSpeaking = false;
                return false;
            }
        },

        isSpeaking: () => isSpeaking
    };

    console.log(TAG, 'virtual microphone installed');
})();
`
