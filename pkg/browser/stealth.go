package browser

// Patches applied before any page script runs so the automated browser
// does not advertise itself. Conference pages refuse service to
// anything that looks like a driver-controlled session.
const stealthScript = `
(() => {
    // navigator.webdriver is forced to true by the automation driver
    Object.defineProperty(navigator, 'webdriver', {
        get: () => undefined,
        configurable: true,
    });

    // An empty plugin list is a headless giveaway
    Object.defineProperty(navigator, 'plugins', {
        get: () => {
            const arr = [{
                name: 'Chrome PDF Plugin',
                description: 'Portable Document Format',
                filename: 'internal-pdf-viewer',
                length: 1,
                0: { type: 'application/x-google-chrome-pdf', suffixes: 'pdf', description: 'Portable Document Format' },
            }, {
                name: 'Chrome PDF Viewer',
                description: '',
                filename: 'mhjfbmdgcfjbbpaeojofohoefgiehjai',
                length: 1,
                0: { type: 'application/pdf', suffixes: 'pdf', description: '' },
            }, {
                name: 'Native Client',
                description: '',
                filename: 'internal-nacl-plugin',
                length: 2,
                0: { type: 'application/x-nacl', suffixes: '', description: 'Native Client Executable' },
                1: { type: 'application/x-pnacl', suffixes: '', description: 'Portable Native Client Executable' },
            }];
            arr.refresh = () => {};
            return arr;
        },
        configurable: true,
    });

    Object.defineProperty(navigator, 'languages', {
        get: () => ['en-US', 'en'],
        configurable: true,
    });

    // Driver-controlled contexts answer permission queries inconsistently
    const originalQuery = window.navigator.permissions.query.bind(window.navigator.permissions);
    window.navigator.permissions.query = (parameters) => {
        if (parameters.name === 'notifications') {
            return Promise.resolve({ state: Notification.permission });
        }
        return originalQuery(parameters);
    };

    if (!window.chrome) {
        window.chrome = {};
    }
    if (!window.chrome.runtime) {
        window.chrome.runtime = {};
    }

    // outerWidth/outerHeight are 0 in headless mode
    if (window.outerWidth === 0) {
        Object.defineProperty(window, 'outerWidth', { get: () => window.innerWidth });
    }
    if (window.outerHeight === 0) {
        Object.defineProperty(window, 'outerHeight', { get: () => window.innerHeight });
    }
})();
`
