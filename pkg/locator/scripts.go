package locator

// One probe collects every labelled interactive element; which of them
// is the mic or camera toggle is decided in Go (rules.go), so the
// heuristics stay testable without a browser.
const candidatesScript = `
() => {
    const out = [];
    for (const el of document.querySelectorAll('button, [role="button"], [data-is-muted]')) {
        const label = [
            el.getAttribute('aria-label') || '',
            el.getAttribute('data-tooltip') || '',
            el.getAttribute('title') || '',
        ].join(' ').toLowerCase();
        if (!label.trim()) continue;
        const r = el.getBoundingClientRect();
        out.push({ label, x: r.left + r.width / 2, y: r.top + r.height / 2 });
    }
    return out;
}
`

// Join buttons are matched by visible text, not label attributes; the
// span fallback covers buttons whose text lives in a child node.
const findJoinScript = `
(targets) => {
    for (const btn of document.querySelectorAll('button')) {
        const text = (btn.innerText || '').trim().toLowerCase();
        if (targets.some(t => text.includes(t))) {
            const r = btn.getBoundingClientRect();
            return { text: (btn.innerText || '').trim(), x: r.left + r.width / 2, y: r.top + r.height / 2 };
        }
    }
    for (const span of document.querySelectorAll('button span')) {
        const text = (span.innerText || '').trim().toLowerCase();
        if (targets.some(t => text.includes(t))) {
            const btn = span.closest('button');
            if (btn) {
                const r = btn.getBoundingClientRect();
                return { text: (btn.innerText || '').trim(), x: r.left + r.width / 2, y: r.top + r.height / 2 };
            }
        }
    }
    return null;
}
`

const dismissPopupsScript = `
(tables) => {
    let clicked = 0;
    for (const btn of document.querySelectorAll('button, [role="button"]')) {
        const text = (btn.innerText || '').trim().toLowerCase();
        if (tables.dismiss.some(d => text.includes(d))) { btn.click(); clicked++; }
    }
    for (const el of document.querySelectorAll('[role="dialog"] button, [role="alertdialog"] button')) {
        const text = (el.innerText || '').trim().toLowerCase();
        if (tables.confirm.some(d => text.includes(d))) { el.click(); clicked++; }
    }
    return clicked;
}
`

// The pre-join screen is recognised by any of: device toggles, a join
// button, or the name prompt shown to signed-out visitors.
const prejoinScript = `
(targets) => {
    for (const btn of document.querySelectorAll('button, [role="button"]')) {
        const labels = [
            btn.getAttribute('aria-label') || '',
            btn.getAttribute('data-tooltip') || '',
            btn.getAttribute('title') || '',
        ].join(' ').toLowerCase();
        if (labels.includes('microphone') || labels.includes('camera')) return true;
    }
    for (const btn of document.querySelectorAll('button')) {
        const text = (btn.innerText || '').trim().toLowerCase();
        if (targets.some(t => text.includes(t))) return true;
    }
    if (document.querySelector('input[placeholder="Your name"]')) return true;
    const bodyText = (document.body && document.body.innerText) || '';
    if (bodyText.includes("What's your name") || bodyText.includes("Your name")) return true;
    return false;
}
`

const meetingOverScript = `
(phrases) => {
    const text = (document.body && document.body.innerText) || '';
    return phrases.some(p => text.includes(p));
}
`
