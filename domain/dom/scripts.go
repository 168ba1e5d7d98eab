// Package dom holds the page-side script functions shared by the browser providers
// and the interaction core. Every script is a function expression that takes exactly
// one argument; callers pass data as that argument and never splice it into the source.
package dom

// describeElement is prepended to scripts that need an element descriptor.
const describeElement = `
const describe = (el) => {
	const rect = el.getBoundingClientRect();
	const style = window.getComputedStyle(el);
	let inLayout = el.isConnected;
	for (let node = el; inLayout && node; node = node.parentElement) {
		if (window.getComputedStyle(node).display === 'none') {
			inLayout = false;
		}
	}
	const attributes = {};
	for (const attr of Array.from(el.attributes)) {
		attributes[attr.name] = attr.value;
	}
	return {
		tag: el.tagName.toLowerCase(),
		textContent: (el.textContent || '').trim().substring(0, 500),
		attributes: attributes,
		boundingBox: { x: rect.x, y: rect.y, width: rect.width, height: rect.height },
		computedStyle: {
			display: style.display,
			visibility: style.visibility,
			opacity: style.opacity,
			pointerEvents: style.pointerEvents,
			zIndex: style.zIndex,
			position: style.position
		},
		inLayout: inLayout
	};
};
`

// InspectElement returns the descriptor of the first element matching the selector, or null.
const InspectElement = `(selector) => {` + describeElement + `
	const el = document.querySelector(selector);
	return el ? describe(el) : null;
}`

// QueryElements returns text and a quick visibility flag for every match.
const QueryElements = `(selector) => {` + describeElement + `
	return Array.from(document.querySelectorAll(selector)).map((el) => {
		const d = describe(el);
		const box = d.boundingBox;
		const visible = d.inLayout &&
			d.computedStyle.visibility !== 'hidden' &&
			parseFloat(d.computedStyle.opacity || '1') > 0 &&
			box.width > 0 && box.height > 0;
		return { text: (el.innerText || el.textContent || '').trim().substring(0, 200), visible: visible };
	});
}`

// ScriptClick calls HTMLElement.click() directly, bypassing the automation engine.
const ScriptClick = `(selector) => {
	const el = document.querySelector(selector);
	if (!el) {
		return { success: false, message: 'element not found' };
	}
	if (typeof el.click !== 'function') {
		return { success: false, message: 'element has no click method' };
	}
	el.scrollIntoView({ block: 'center', inline: 'center' });
	el.click();
	return { success: true, message: 'clicked via HTMLElement.click()' };
}`

// DispatchEvent dispatches a bubbling, cancelable event. Used by providers without a
// native dispatch primitive. Argument: {selector, type, init}.
const DispatchEvent = `(args) => {
	const el = document.querySelector(args.selector);
	if (!el) {
		return { success: false, message: 'element not found' };
	}
	const init = Object.assign({ bubbles: true, cancelable: true, view: window }, args.init || {});
	const mouseTypes = ['click', 'dblclick', 'mousedown', 'mouseup', 'mouseover', 'mouseout', 'mouseenter', 'mouseleave', 'mousemove'];
	const event = mouseTypes.includes(args.type) ? new MouseEvent(args.type, init) : new Event(args.type, init);
	el.dispatchEvent(event);
	return { success: true, message: 'dispatched ' + args.type };
}`

// ClickAtPoint emulates a raw coordinate click for providers without pointer actions.
// Argument: {x, y}.
const ClickAtPoint = `(args) => {
	const el = document.elementFromPoint(args.x, args.y);
	if (!el) {
		return { success: false, message: 'no element at point' };
	}
	const init = { bubbles: true, cancelable: true, view: window, clientX: args.x, clientY: args.y, button: 0 };
	for (const type of ['mousedown', 'mouseup', 'click']) {
		el.dispatchEvent(new MouseEvent(type, init));
	}
	return { success: true, message: 'clicked ' + el.tagName.toLowerCase() + ' at point' };
}`

// LocateDropdownTrigger finds the visible trigger of a custom dropdown, either through
// the label associated with the underlying field or from a direct selector, and tags it
// with data-bdd-trigger. Argument: {label, selector, token}.
const LocateDropdownTrigger = `(args) => {
	const triggerOf = (root) => root.querySelector('.select2-selection, .select2-choice') || root;
	const byLabel = (text) => {
		const wanted = text.trim().toLowerCase();
		const labels = Array.from(document.querySelectorAll('label'));
		const label = labels.find((l) => l.textContent.trim().toLowerCase() === wanted) ||
			labels.find((l) => l.textContent.trim().toLowerCase().includes(wanted));
		if (!label) {
			return null;
		}
		const forId = label.getAttribute('for');
		let field = forId ? document.getElementById(forId) : null;
		if (!field) {
			field = label.querySelector('select, input');
		}
		if (!field && label.parentElement) {
			field = label.parentElement.querySelector('select, .select2-selection, .select2-choice');
		}
		return field;
	};
	const resolve = (el) => {
		if (!el) {
			return null;
		}
		if (el.matches('.select2-selection, .select2-choice')) {
			return el;
		}
		for (let sib = el.nextElementSibling; sib; sib = sib.nextElementSibling) {
			if (sib.classList.contains('select2-container')) {
				return triggerOf(sib);
			}
		}
		const container = el.closest('.select2-container');
		if (container) {
			return triggerOf(container);
		}
		if (el.id) {
			const legacy = document.getElementById('s2id_' + el.id);
			if (legacy) {
				return triggerOf(legacy);
			}
		}
		return el;
	};
	const base = args.label ? byLabel(args.label) : document.querySelector(args.selector);
	const trigger = resolve(base);
	if (!trigger) {
		return { found: false };
	}
	trigger.setAttribute('data-bdd-trigger', args.token);
	return { found: true, tag: trigger.tagName.toLowerCase() };
}`

// ScanDropdowns enumerates outermost candidate containers in document order with their
// options, tagging each with data-bdd-scan so they can be addressed afterwards.
// Argument: {containerSelector, optionSelector, token}.
const ScanDropdowns = `(args) => {` + describeElement + `
	const all = Array.from(document.querySelectorAll(args.containerSelector));
	const outermost = all.filter((el) => !all.some((other) => other !== el && other.contains(el)));
	return outermost.map((container, ci) => {
		const containerTag = args.token + '-c' + ci;
		container.setAttribute('data-bdd-scan', containerTag);
		const options = Array.from(container.querySelectorAll(args.optionSelector)).map((opt, oi) => {
			const optionTag = containerTag + '-o' + oi;
			opt.setAttribute('data-bdd-scan', optionTag);
			return {
				tag: optionTag,
				text: (opt.innerText || opt.textContent || '').trim(),
				role: opt.getAttribute('role') || '',
				disabled: opt.hasAttribute('disabled') ||
					opt.getAttribute('aria-disabled') === 'true' ||
					opt.classList.contains('select2-results__option--disabled') ||
					opt.classList.contains('select2-disabled'),
				element: describe(opt)
			};
		});
		return { tag: containerTag, index: ci, element: describe(container), options: options };
	});
}`
